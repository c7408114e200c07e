// Package charges keeps a quote's optional flat-fee lines in step with the
// configured extra charges.
//
// Sync is idempotent: running it again with the same configuration leaves
// the line items unchanged. Lines are matched to charges by normalized
// display name. With MatchByKey, lines synthesized by Sync are also matched
// by the ChargeKey they carry, so renaming a charge replaces its old line
// instead of leaving it behind.
package charges

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"nestquote/internal/costing"
	"nestquote/internal/ledger"
	"nestquote/internal/logger"
	"nestquote/pkg/models"
)

// MatchMode selects how existing lines are recognized as charge lines.
type MatchMode string

const (
	// MatchByName compares normalized descriptions with normalized charge names.
	MatchByName MatchMode = "name"

	// MatchByKey additionally treats every line tagged with a ChargeKey as a
	// charge line.
	MatchByKey MatchMode = "key"
)

// ParseMatchMode maps a settings value to a MatchMode. Unknown or empty
// values select MatchByName.
func ParseMatchMode(s string) MatchMode {
	if MatchMode(strings.ToLower(strings.TrimSpace(s))) == MatchByKey {
		return MatchByKey
	}
	return MatchByName
}

// Result reports what a Sync changed.
type Result struct {
	LegacyRemoved int // lines with a retired marker suffix
	Removed       int // previously inserted charge lines
	Added         int // lines for currently enabled charges
}

func (r Result) String() string {
	return fmt.Sprintf("legacy removed %d, removed %d, added %d", r.LegacyRemoved, r.Removed, r.Added)
}

// Synchronizer reconciles extra charges into a quote.
type Synchronizer struct {
	mode MatchMode
	log  zerolog.Logger
}

// NewSynchronizer creates a synchronizer using the given match mode
func NewSynchronizer(mode MatchMode) *Synchronizer {
	if mode != MatchByKey {
		mode = MatchByName
	}
	return &Synchronizer{
		mode: mode,
		log:  logger.WithComponent("charge-sync"),
	}
}

// Mode returns the match mode in use.
func (s *Synchronizer) Mode() MatchMode { return s.mode }

// Sync removes legacy and previously inserted charge lines from q, then
// appends one line for each enabled charge with a positive amount.
func (s *Synchronizer) Sync(q *ledger.Quote, cfgs []models.ExtraChargeConfig) Result {
	var res Result

	// 1. retired marker convention
	res.LegacyRemoved, _ = q.RemoveLineItemsWhere(func(li models.LineItem) bool {
		return IsLegacyLine(li.Description)
	})

	// 2. clear every line that belongs to a configured charge
	names := make(map[string]struct{}, len(cfgs))
	for _, c := range cfgs {
		if n := Normalize(c.Name); n != "" {
			names[n] = struct{}{}
		}
	}
	res.Removed, _ = q.RemoveLineItemsWhere(func(li models.LineItem) bool {
		if s.mode == MatchByKey && li.ChargeKey != "" {
			return true
		}
		_, ok := names[Normalize(li.Description)]
		return ok
	})

	// 3. re-add the enabled ones
	present := make(map[string]struct{})
	for _, li := range q.LineItems() {
		present[Normalize(li.Description)] = struct{}{}
	}

	var add []models.LineItem
	for _, c := range cfgs {
		if !c.Enabled || c.Amount <= 0 {
			continue
		}
		n := Normalize(c.Name)
		if n == "" {
			continue
		}
		if _, ok := present[n]; ok {
			continue
		}
		present[n] = struct{}{}
		add = append(add, models.LineItem{
			Description: strings.TrimSpace(c.Name),
			Quantity:    1,
			UnitPrice:   costing.RoundCents(c.Amount),
			ChargeKey:   c.Key,
		})
	}
	if len(add) > 0 {
		// quantities are 1, AddLineItems cannot fail here
		if _, err := q.AddLineItems(add...); err != nil {
			s.log.Error().Err(err).Msg("Failed to add extra charge lines")
		} else {
			res.Added = len(add)
		}
	}

	s.log.Debug().
		Str("quote", q.Number()).
		Str("mode", string(s.mode)).
		Int("legacy_removed", res.LegacyRemoved).
		Int("removed", res.Removed).
		Int("added", res.Added).
		Msg("Extra charges synchronized")

	return res
}
