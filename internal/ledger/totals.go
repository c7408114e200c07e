package ledger

import (
	"math"

	"nestquote/pkg/models"
)

// Totals is the derived money summary of a quote.
type Totals struct {
	Subtotal              float64 `json:"subtotal"`
	DiscountAmount        float64 `json:"discount_amount"`
	SubtotalAfterDiscount float64 `json:"subtotal_after_discount"`
	Tax                   float64 `json:"tax"`
	GrandTotal            float64 `json:"grand_total"`
}

// ComputeTotals derives the cascade subtotal -> discount -> tax -> grand total.
// Tax is charged on the discounted subtotal, which is floored at zero, so the
// grand total is never negative.
func ComputeTotals(items []models.LineItem, discountPercent, taxRate float64) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal += item.Total()
	}
	t.DiscountAmount = t.Subtotal * discountPercent / 100
	t.SubtotalAfterDiscount = math.Max(0, t.Subtotal-t.DiscountAmount)
	t.Tax = t.SubtotalAfterDiscount * taxRate / 100
	t.GrandTotal = t.SubtotalAfterDiscount + t.Tax
	return t
}

// ClampPercent limits p to 0..100. The ledger stores whatever it is given;
// callers clamp discounts before assigning them.
func ClampPercent(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Min(100, math.Max(0, p))
}
