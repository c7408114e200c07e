package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"nestquote/internal/logger"
	"nestquote/internal/quoting"
	"nestquote/internal/settings"
)

var quoteCmd = &cobra.Command{
	Use:   "quote [xml-file...]",
	Short: "Build a quote from one or more nesting export files",
	Long: `Import nesting export files into a new quote and print it.

A new quote number is issued for every run. Files are imported in the order
given; a file that cannot be imported is reported and skipped while the rest
are kept. Extra charges enabled in the settings file are added once after the
import.

With --watch-settings the quote stays open and is re-printed every time the
settings file changes, so charge amounts and the tax rate can be tuned live.`,
	Example: `  # Quote a single nest
  nestquote quote job-0142.xml

  # Quote several nests for a known customer with 5% discount
  nestquote quote sheet1.xml sheet2.xml --customer "Acme Steel" --discount 5

  # Write the quote as JSON for a document generator
  nestquote quote job-0142.xml -o quote.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuote,
}

// QuoteOutput is the JSON form of a quote run.
type QuoteOutput struct {
	Quote quoting.Snapshot `json:"quote"`
	Files []ImportedFile   `json:"files"`
}

// ImportedFile reports one input file.
type ImportedFile struct {
	Path           string  `json:"path"`
	Error          string  `json:"error,omitempty"`
	SheetQuantity  int     `json:"sheet_quantity,omitempty"`
	ProcessMinutes float64 `json:"process_minutes,omitempty"`
	TotalWeight    float64 `json:"total_weight_lbs,omitempty"`
	Parts          int     `json:"parts,omitempty"`
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().String("customer", "", "Customer ID or company name to apply")
	quoteCmd.Flags().Float64("discount", 0, "Discount percent (0-100), overrides the customer default")
	quoteCmd.Flags().Bool("json", false, "Print the quote as JSON")
	quoteCmd.Flags().StringP("output", "o", "", "Write the quote as JSON to this file")
	quoteCmd.Flags().Bool("parts", false, "Include the per-part breakdown")
	quoteCmd.Flags().Bool("watch-settings", false, "Re-apply settings on change until interrupted")
}

func runQuote(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("quote")

	customerRef, _ := cmd.Flags().GetString("customer")
	asJSON, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")
	showParts, _ := cmd.Flags().GetBool("parts")
	watch, _ := cmd.Flags().GetBool("watch-settings")

	store := settingsStore()
	session, err := quoting.NewSession(quoting.Options{
		Issuer:   quoteIssuer(),
		Settings: store.Load(),
	})
	if err != nil {
		return err
	}

	if customerRef != "" {
		c, err := customerStore().Find(customerRef)
		if err != nil {
			return err
		}
		session.ApplyCustomer(c)
	}
	if cmd.Flags().Changed("discount") {
		discount, _ := cmd.Flags().GetFloat64("discount")
		session.SetDiscountPercent(discount)
	}

	res, importErr := session.ImportFiles(args...)
	if res.Imported == 0 {
		return fmt.Errorf("no file could be imported: %w", importErr)
	}

	log.Info().
		Str("quote", session.Snapshot().Number).
		Int("files", len(args)).
		Int("failed", res.Failed).
		Msg("Quote built")

	emit := func() error {
		snap := session.Snapshot()
		if asJSON || outputPath != "" {
			return writeJSON(QuoteOutput{Quote: snap, Files: importedFiles(res)}, outputPath, log)
		}
		renderImportFailures(os.Stderr, res)
		renderQuote(os.Stdout, snap, showParts)
		return nil
	}
	if err := emit(); err != nil {
		return err
	}

	if !watch {
		return nil
	}
	return watchSettings(store, session, emit, log)
}

func watchSettings(store *settings.Store, session *quoting.Session, emit func() error, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, mutedStyle.Render("Watching "+store.Path+", press Ctrl+C to stop"))

	err := store.Watch(ctx, func(st *settings.Settings) {
		r := session.ApplySettings(st)
		log.Info().Str("changes", r.String()).Msg("Settings re-applied")
		fmt.Fprintln(os.Stdout, mutedStyle.Render("-- settings changed "+time.Now().Format(time.TimeOnly)+" --"))
		if err := emit(); err != nil {
			log.Warn().Err(err).Msg("Failed to print updated quote")
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func importedFiles(res *quoting.ImportResult) []ImportedFile {
	out := make([]ImportedFile, 0, len(res.Files))
	for _, f := range res.Files {
		if f.Err != nil {
			out = append(out, ImportedFile{Path: f.Path, Error: f.Err.Error()})
			continue
		}
		out = append(out, ImportedFile{
			Path:           f.Path,
			SheetQuantity:  f.Job.SheetQuantity,
			ProcessMinutes: f.Job.ProcessMinutes,
			TotalWeight:    f.Job.TotalWeight,
			Parts:          len(f.Parts),
		})
	}
	return out
}
