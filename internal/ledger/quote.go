// Package ledger holds the quote aggregate: ordered line items, part
// details, tax and discount rates, and the totals derived from them.
//
// Totals are never cached. Every mutating method recomputes them and returns
// the fresh snapshot, and Revision increases on every mutation so a display
// can poll for changes. There are no callbacks.
package ledger

import (
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"nestquote/internal/logger"
	"nestquote/pkg/models"
)

// Quote is one quotation being edited. It is not safe for concurrent use.
type Quote struct {
	number       string
	date         time.Time
	customerName string

	lineItems   []models.LineItem
	partDetails []models.PartCostDetail

	taxRate         float64
	discountPercent float64

	revision uint64
	log      zerolog.Logger
}

// New creates an empty quote. The number is fixed for the life of the quote.
func New(number string, date time.Time, taxRate, discountPercent float64) *Quote {
	return &Quote{
		number:          number,
		date:            date,
		taxRate:         taxRate,
		discountPercent: discountPercent,
		log:             logger.WithQuote("quote-ledger", number),
	}
}

func (q *Quote) Number() string       { return q.number }
func (q *Quote) Date() time.Time      { return q.date }
func (q *Quote) CustomerName() string { return q.customerName }
func (q *Quote) TaxRate() float64     { return q.taxRate }

// DiscountPercent returns the discount as stored, without clamping.
func (q *Quote) DiscountPercent() float64 { return q.discountPercent }

// Revision increases by one on every mutation.
func (q *Quote) Revision() uint64 { return q.revision }

// LineItems returns a copy of the line items in display order.
func (q *Quote) LineItems() []models.LineItem { return slices.Clone(q.lineItems) }

// PartDetails returns a copy of the part breakdown.
func (q *Quote) PartDetails() []models.PartCostDetail { return slices.Clone(q.partDetails) }

// Totals recomputes the derived totals from the current state.
func (q *Quote) Totals() Totals {
	return ComputeTotals(q.lineItems, q.discountPercent, q.taxRate)
}

// AddLineItems appends items in order.
func (q *Quote) AddLineItems(items ...models.LineItem) (Totals, error) {
	for _, item := range items {
		if item.Quantity < 0 {
			return q.Totals(), fmt.Errorf("%q: %w", item.Description, ErrNegativeQuantity)
		}
	}
	q.lineItems = append(q.lineItems, items...)
	return q.changed("add line items"), nil
}

// InsertLineItem places item at index i, shifting later items down.
// i == len(LineItems()) appends.
func (q *Quote) InsertLineItem(i int, item models.LineItem) (Totals, error) {
	if i < 0 || i > len(q.lineItems) {
		return q.Totals(), fmt.Errorf("insert at %d: %w", i, ErrIndexOutOfRange)
	}
	if item.Quantity < 0 {
		return q.Totals(), fmt.Errorf("%q: %w", item.Description, ErrNegativeQuantity)
	}
	q.lineItems = slices.Insert(q.lineItems, i, item)
	return q.changed("insert line item"), nil
}

// UpdateLineItem replaces the item at index i. This is the manual-edit path:
// the unit price may be negative here.
func (q *Quote) UpdateLineItem(i int, item models.LineItem) (Totals, error) {
	if i < 0 || i >= len(q.lineItems) {
		return q.Totals(), fmt.Errorf("update %d: %w", i, ErrIndexOutOfRange)
	}
	if item.Quantity < 0 {
		return q.Totals(), fmt.Errorf("%q: %w", item.Description, ErrNegativeQuantity)
	}
	q.lineItems[i] = item
	return q.changed("update line item"), nil
}

// RemoveLineItem deletes the item at index i.
func (q *Quote) RemoveLineItem(i int) (Totals, error) {
	if i < 0 || i >= len(q.lineItems) {
		return q.Totals(), fmt.Errorf("remove %d: %w", i, ErrIndexOutOfRange)
	}
	q.lineItems = slices.Delete(q.lineItems, i, i+1)
	return q.changed("remove line item"), nil
}

// RemoveLineItemsWhere deletes every item matching pred, keeping the order of
// the rest, and reports how many were removed. Revision only moves when
// something was removed.
func (q *Quote) RemoveLineItemsWhere(pred func(models.LineItem) bool) (int, Totals) {
	before := len(q.lineItems)
	q.lineItems = slices.DeleteFunc(q.lineItems, pred)
	removed := before - len(q.lineItems)
	if removed == 0 {
		return 0, q.Totals()
	}
	return removed, q.changed("remove matching line items")
}

// AddPartDetails appends to the part breakdown.
func (q *Quote) AddPartDetails(parts ...models.PartCostDetail) Totals {
	q.partDetails = append(q.partDetails, parts...)
	return q.changed("add part details")
}

// SetTaxRate stores the tax rate in percent.
func (q *Quote) SetTaxRate(rate float64) Totals {
	q.taxRate = rate
	return q.changed("set tax rate")
}

// SetDiscountPercent stores the discount as given. Use ClampPercent first.
func (q *Quote) SetDiscountPercent(p float64) Totals {
	q.discountPercent = p
	return q.changed("set discount")
}

// SetCustomerName sets the customer shown on the quote.
func (q *Quote) SetCustomerName(name string) Totals {
	q.customerName = name
	return q.changed("set customer")
}

func (q *Quote) changed(op string) Totals {
	q.revision++
	t := q.Totals()
	q.log.Debug().
		Str("op", op).
		Uint64("revision", q.revision).
		Int("line_items", len(q.lineItems)).
		Float64("grand_total", t.GrandTotal).
		Msg("Quote totals recomputed")
	return t
}
