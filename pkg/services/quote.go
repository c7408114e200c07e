package services

import (
	"nestquote/internal/charges"
	"nestquote/internal/ledger"
	"nestquote/internal/quoting"
	"nestquote/internal/settings"
	"nestquote/pkg/models"
)

// QuoteWorkflow is the surface a presentation layer drives: it starts quotes,
// imports nesting exports and reads back a snapshot to display or export.
type QuoteWorkflow interface {
	// StartNewQuote discards the current quote and returns the new quote number
	StartNewQuote() (string, error)

	// ImportFiles imports nesting exports in order, keeping every file that
	// succeeded even when others fail
	ImportFiles(paths ...string) (*quoting.ImportResult, error)

	// ApplySettings adopts changed settings and re-synchronizes extra charges
	ApplySettings(st *settings.Settings) charges.Result

	// ApplyCustomer copies a customer's name and default rates onto the quote
	ApplyCustomer(c models.Customer) ledger.Totals

	// SetDiscountPercent sets the quote discount, clamped to 0..100
	SetDiscountPercent(p float64) ledger.Totals

	// Snapshot returns a detached view of the quote
	Snapshot() quoting.Snapshot
}

var _ QuoteWorkflow = (*quoting.Session)(nil)
