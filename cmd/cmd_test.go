package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nestquote/internal/costing"
	"nestquote/internal/ledger"
	"nestquote/internal/quoting"
	"nestquote/pkg/models"
)

func sampleSnapshot() quoting.Snapshot {
	items := []models.LineItem{
		{Description: "A36-025 - Laser Time (45m)", Quantity: 1, UnitPrice: 60},
		{Description: "A36-025 - Material (3369.60 lbs)", Quantity: 3, UnitPrice: 2358.72},
	}
	return quoting.Snapshot{
		Number:          "Q-000007",
		Date:            time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		CustomerName:    "Acme Steel",
		TaxRate:         8,
		DiscountPercent: 10,
		LineItems:       items,
		PartDetails: []models.PartCostDetail{
			{Name: "BRKT-100", Quantity: 12, CutDistance: 240, CutArea: 36.5, LaserCost: 32, MaterialCost: 22.42},
		},
		Totals:  ledger.ComputeTotals(items, 10, 8),
		Company: quoting.Company{Name: "Diamond Fab"},
	}
}

func TestRenderQuote(t *testing.T) {
	var buf bytes.Buffer
	renderQuote(&buf, sampleSnapshot(), true)
	out := buf.String()

	for _, want := range []string{
		"Quote Q-000007",
		"Diamond Fab",
		"Customer Acme Steel",
		"A36-025 - Laser Time (45m)",
		"$2358.72",
		"$7076.16",
		"BRKT-100",
		"$54.42",
		"Discount (10%)",
		"Tax (8%)",
		"$6936.35",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderQuoteWithoutParts(t *testing.T) {
	var buf bytes.Buffer
	renderQuote(&buf, sampleSnapshot(), false)
	assert.NotContains(t, buf.String(), "BRKT-100")
}

func TestRenderCustomers(t *testing.T) {
	var buf bytes.Buffer
	renderCustomers(&buf, nil)
	assert.Contains(t, buf.String(), "No customers")

	buf.Reset()
	renderCustomers(&buf, []models.Customer{{ID: "c1", CompanyName: "Acme Steel", DefaultTaxRate: 7.5}})
	assert.Contains(t, buf.String(), "Acme Steel")
	assert.Contains(t, buf.String(), "7.5")
}

func TestImportedFiles(t *testing.T) {
	res := &quoting.ImportResult{Files: []quoting.FileResult{
		{Path: "a.xml", Job: costing.JobCost{SheetQuantity: 3, ProcessMinutes: 45}, Parts: make([]models.PartCostDetail, 2)},
		{Path: "b.xml", Err: errors.New("nest file not found")},
	}}

	files := importedFiles(res)
	require.Len(t, files, 2)
	assert.Equal(t, ImportedFile{Path: "a.xml", SheetQuantity: 3, ProcessMinutes: 45, Parts: 2}, files[0])
	assert.Equal(t, "nest file not found", files[1].Error)
}

func TestNumberCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NESTQUOTE_LEGACY_DIR", dir)

	rootCmd.SetArgs([]string{"number", "--data-dir", dir})
	require.NoError(t, rootCmd.Execute())
	rootCmd.SetArgs([]string{"number", "--data-dir", dir})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "QuoteNumber.txt"))
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(string(data)))
}

func TestQuoteCommandWritesJSON(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NESTQUOTE_LEGACY_DIR", dir)
	out := filepath.Join(dir, "quote.json")
	job := filepath.Join("..", "internal", "nest", "testdata", "job.xml")

	rootCmd.SetArgs([]string{"quote", job, "--data-dir", dir, "-o", out})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var got QuoteOutput
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Q-000001", got.Quote.Number)
	require.Len(t, got.Quote.LineItems, 2)
	assert.Equal(t, 2358.72, got.Quote.LineItems[1].UnitPrice)
	require.Len(t, got.Files, 1)
	assert.Equal(t, 3, got.Files[0].SheetQuantity)
	assert.FileExists(t, filepath.Join(dir, "settings.yaml"))
}

func TestQuoteCommandFailsWhenNothingImports(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NESTQUOTE_LEGACY_DIR", dir)

	rootCmd.SetArgs([]string{"quote", filepath.Join(dir, "missing.xml"), "--data-dir", dir})
	assert.Error(t, rootCmd.Execute())
}

func TestSettingsShowListsMaterialRates(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NESTQUOTE_LEGACY_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yaml"),
		[]byte("company_name: Diamond Fab\nmaterial_rates:\n  A36: 0.5\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	rootCmd.SetArgs([]string{"settings", "show", "--data-dir", dir})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "material_rates:\n    A36: 0.5\n")
	assert.Contains(t, out.String(), "company_name: Diamond Fab")
}
