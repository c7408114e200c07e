// Package quoting drives one quote through its lifecycle: numbering, file
// import, settings and customer changes, and a read model for export.
package quoting

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nestquote/internal/charges"
	"nestquote/internal/costing"
	"nestquote/internal/ledger"
	"nestquote/internal/logger"
	"nestquote/internal/nest"
	"nestquote/internal/quotenum"
	"nestquote/internal/settings"
	"nestquote/pkg/models"
)

// Options wires a Session. Issuer is required; the rest have defaults.
type Options struct {
	Parser   *nest.Parser
	Issuer   *quotenum.Issuer
	Settings *settings.Settings

	// Now stamps new quotes. Defaults to time.Now.
	Now func() time.Time
}

// Session holds the quote currently being edited. Methods are safe for
// concurrent use, so a settings watcher may call ApplySettings while the
// caller reads snapshots.
type Session struct {
	mu sync.Mutex

	parser   *nest.Parser
	issuer   *quotenum.Issuer
	settings *settings.Settings
	syncer   *charges.Synchronizer
	now      func() time.Time

	quote *ledger.Quote
	log   zerolog.Logger
}

// NewSession creates a session and issues the first quote number.
func NewSession(opts Options) (*Session, error) {
	if opts.Issuer == nil {
		return nil, errors.New("quoting: an issuer is required")
	}
	if opts.Parser == nil {
		opts.Parser = nest.NewParser()
	}
	if opts.Settings == nil {
		opts.Settings = settings.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		parser:   opts.Parser,
		issuer:   opts.Issuer,
		settings: opts.Settings.Clone(),
		syncer:   charges.NewSynchronizer(charges.ParseMatchMode(opts.Settings.ChargeMatching)),
		now:      opts.Now,
		log:      logger.WithComponent("quoting"),
	}

	if err := s.startNewQuote(); err != nil {
		return nil, err
	}
	return s, nil
}

// Quote returns the quote being edited. The pointer changes on StartNewQuote.
func (s *Session) Quote() *ledger.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote
}

// Settings returns a copy of the settings in effect.
func (s *Session) Settings() *settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// StartNewQuote discards the current quote and begins an empty one with a
// fresh number. The previous quote is kept if no number can be issued.
func (s *Session) StartNewQuote() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.startNewQuote(); err != nil {
		return "", err
	}
	return s.quote.Number(), nil
}

func (s *Session) startNewQuote() error {
	number, err := s.issuer.NextFormatted()
	if err != nil {
		return fmt.Errorf("failed to issue quote number: %w", err)
	}

	s.quote = ledger.New(number, s.now(), s.settings.TaxRate, ledger.ClampPercent(s.settings.DefaultDiscountPercent))
	s.log.Info().Str("quote", number).Msg("Started new quote")
	return nil
}

// FileResult is the outcome of importing one file.
type FileResult struct {
	Path  string
	Job   costing.JobCost
	Parts []models.PartCostDetail
	Err   error
}

// ImportResult summarizes an import batch.
type ImportResult struct {
	Files    []FileResult
	Imported int
	Failed   int
	Charges  charges.Result
	Totals   ledger.Totals
}

// ImportFiles imports paths in order. Each file is committed to the quote on
// its own, so a failing file does not undo earlier ones. Extra charges are
// synchronized once after the batch. The returned error joins every
// per-file failure; the result is always non-nil.
func (s *Session) ImportFiles(paths ...string) (*ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &ImportResult{Files: make([]FileResult, 0, len(paths))}
	var errs []error

	for _, path := range paths {
		fr := s.importFile(path)
		res.Files = append(res.Files, fr)
		if fr.Err != nil {
			res.Failed++
			errs = append(errs, fr.Err)
			continue
		}
		res.Imported++
	}

	res.Charges = s.syncer.Sync(s.quote, s.settings.ExtraCharges)
	res.Totals = s.quote.Totals()

	s.log.Info().
		Str("quote", s.quote.Number()).
		Int("imported", res.Imported).
		Int("failed", res.Failed).
		Float64("grand_total", res.Totals.GrandTotal).
		Msg("Import finished")

	return res, errors.Join(errs...)
}

func (s *Session) importFile(path string) FileResult {
	fr := FileResult{Path: path}

	doc, err := s.parser.ParseFile(path)
	if err != nil {
		fr.Err = err
		s.log.Error().Err(err).Str("path", path).Msg("Import failed")
		return fr
	}

	rate := s.settings.HourlyLaserRate
	in := doc.CostInput()
	fr.Job = costing.Calculate(in, rate)
	fr.Parts = costing.PriceParts(doc.Parts(), in, rate)

	if _, err := s.quote.AddLineItems(fr.Job.LaserLine, fr.Job.MaterialLine); err != nil {
		fr.Err = fmt.Errorf("failed to add line items for %s: %w", path, err)
		return fr
	}
	s.quote.AddPartDetails(fr.Parts...)

	s.log.Debug().
		Str("path", path).
		Str("material", in.MaterialCode).
		Int("sheets", fr.Job.SheetQuantity).
		Int("parts", len(fr.Parts)).
		Msg("File imported")
	return fr
}

// SyncCharges reconciles the configured extra charges into the quote.
func (s *Session) SyncCharges() charges.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncer.Sync(s.quote, s.settings.ExtraCharges)
}

// ApplySettings adopts st: the quote takes its tax rate, the charge match
// mode follows it and extra charges are re-synchronized. Line items already
// priced at the old laser rate are left as they are.
func (s *Session) ApplySettings(st *settings.Settings) charges.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = st.Clone()
	s.syncer = charges.NewSynchronizer(charges.ParseMatchMode(st.ChargeMatching))
	s.quote.SetTaxRate(st.TaxRate)

	s.log.Debug().
		Str("quote", s.quote.Number()).
		Str("charge_matching", string(s.syncer.Mode())).
		Float64("tax_rate", st.TaxRate).
		Msg("Settings applied")
	return s.syncer.Sync(s.quote, s.settings.ExtraCharges)
}

// ApplyCustomer copies the customer's name and default rates onto the quote.
func (s *Session) ApplyCustomer(c models.Customer) ledger.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quote.SetCustomerName(c.CompanyName)
	s.quote.SetTaxRate(c.DefaultTaxRate)
	return s.quote.SetDiscountPercent(ledger.ClampPercent(c.DefaultDiscountPercent))
}

// SetDiscountPercent clamps p to 0..100 and applies it.
func (s *Session) SetDiscountPercent(p float64) ledger.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote.SetDiscountPercent(ledger.ClampPercent(p))
}
