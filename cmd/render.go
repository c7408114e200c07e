package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog"
	"nestquote/internal/quoting"
	"nestquote/pkg/models"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorBorder = lipgloss.Color("#16858E")
	colorMuted  = lipgloss.Color("#6C7A80")
	colorWarn   = lipgloss.Color("#F4D03F")
	colorError  = lipgloss.Color("#E74C3C")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarn)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	totalStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func newTable(numeric ...int) *table.Table {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case right[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})
}

// renderQuote writes a human-readable quote.
func renderQuote(w io.Writer, snap quoting.Snapshot, showParts bool) {
	header := titleStyle.Render("Quote " + snap.Number)
	if snap.Company.Name != "" {
		header += mutedStyle.Render("  " + snap.Company.Name)
	}
	fmt.Fprintln(w, header)

	meta := "Date " + snap.Date.Format("2006-01-02")
	if snap.CustomerName != "" {
		meta += "   Customer " + snap.CustomerName
	}
	fmt.Fprintln(w, mutedStyle.Render(meta))

	lines := newTable(1, 2, 3).Headers("Description", "Qty", "Unit", "Total")
	for _, li := range snap.LineItems {
		lines.Row(li.Description, strconv.Itoa(li.Quantity), money(li.UnitPrice), money(li.Total()))
	}
	fmt.Fprintln(w, lines.Render())

	if showParts && len(snap.PartDetails) > 0 {
		fmt.Fprintln(w, renderParts(snap.PartDetails))
	}

	t := snap.Totals
	rows := [][2]string{
		{"Subtotal", money(t.Subtotal)},
		{fmt.Sprintf("Discount (%g%%)", snap.DiscountPercent), "-" + money(t.DiscountAmount)},
		{"After discount", money(t.SubtotalAfterDiscount)},
		{fmt.Sprintf("Tax (%g%%)", snap.TaxRate), money(t.Tax)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%24s %14s\n", r[0], r[1])
	}
	fmt.Fprintln(w, totalStyle.Render(fmt.Sprintf("%24s %14s", "Grand total", money(t.GrandTotal))))
}

func renderParts(parts []models.PartCostDetail) string {
	tbl := newTable(1, 2, 3, 4, 5, 6).Headers("Part", "Qty", "Cut dist", "Cut area", "Laser", "Material", "Total")
	for _, p := range parts {
		tbl.Row(
			p.Name,
			strconv.Itoa(p.Quantity),
			strconv.FormatFloat(p.CutDistance, 'f', 2, 64),
			strconv.FormatFloat(p.CutArea, 'f', 2, 64),
			money(p.LaserCost),
			money(p.MaterialCost),
			money(p.TotalCost()),
		)
	}
	return tbl.Render()
}

func renderImportFailures(w io.Writer, res *quoting.ImportResult) {
	for _, f := range res.Files {
		if f.Err != nil {
			fmt.Fprintln(w, errorStyle.Render("✗ "+f.Path+": "+f.Err.Error()))
		}
	}
	if res.Failed > 0 && res.Imported > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d of %d files imported", res.Imported, len(res.Files))))
	}
}

func renderCustomers(w io.Writer, list []models.Customer) {
	if len(list) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No customers"))
		return
	}
	tbl := newTable(3, 4).Headers("ID", "Company", "Email", "Tax %", "Discount %")
	for _, c := range list {
		tbl.Row(
			c.ID,
			c.CompanyName,
			c.Email,
			strconv.FormatFloat(c.DefaultTaxRate, 'f', -1, 64),
			strconv.FormatFloat(c.DefaultDiscountPercent, 'f', -1, 64),
		)
	}
	fmt.Fprintln(w, tbl.Render())
}

// writeJSON pretty-prints v to outputPath, or stdout when it is empty.
func writeJSON(v any, outputPath string, log zerolog.Logger) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal output to JSON")
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}

	if outputPath == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		log.Error().Err(err).Str("output", outputPath).Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().Str("output", outputPath).Int("size", len(data)).Msg("Output written")
	fmt.Fprintln(os.Stderr, mutedStyle.Render("Written to "+outputPath))
	return nil
}
