// Package nest reads nesting export files produced by sheet-layout software.
//
// A nesting export is an XML document describing one cutting job: material,
// sheet geometry, machine timing and a per-part breakdown. The schema is not
// validated. Each field is looked up by tag name on its own, and a missing or
// malformed value becomes zero (or an empty string) instead of an error.
// Negative numbers are malformed too: every recognized number is a physical
// quantity, so it is read as zero. The only failures are a path that does not exist and a file that cannot be read
// as XML.
//
// Recognized job-level tags:
//   - StockID, Thickness, FeedRate, PierceRate, SheetX, SheetY,
//     PierceCount, CutDistance, MaterialCost, Density: first match anywhere
//   - NestQty, ProcessTime: direct child of the first <Nest> element when
//     present, otherwise first match anywhere
//
// Part records are <Parts> elements with <Part> (name), <PartQty>,
// <CutDistance> and <AreaT> children.
package nest

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/rs/zerolog"
	"nestquote/internal/logger"
	"nestquote/pkg/models"
)

const (
	tagStockID      = "StockID"
	tagThickness    = "Thickness"
	tagFeedRate     = "FeedRate"
	tagPierceRate   = "PierceRate"
	tagSheetX       = "SheetX"
	tagSheetY       = "SheetY"
	tagPierceCount  = "PierceCount"
	tagCutDistance  = "CutDistance"
	tagNestQty      = "NestQty"
	tagMaterialCost = "MaterialCost"
	tagDensity      = "Density"
	tagProcessTime  = "ProcessTime"

	tagNest    = "Nest"
	tagParts   = "Parts"
	tagPart    = "Part"
	tagPartQty = "PartQty"
	tagAreaT   = "AreaT"

	unnamedPart = "N/A"
)

// Parser reads nesting export files. The zero value is not usable; call NewParser.
type Parser struct {
	log zerolog.Logger
}

// NewParser creates a nesting export parser
func NewParser() *Parser {
	return &Parser{
		log: logger.WithComponent("nest-parser"),
	}
}

// Document is a loaded nesting export.
type Document struct {
	Path string

	root *xmlquery.Node
	log  zerolog.Logger
}

// ParseFile loads and parses the XML once. Use Document.CostInput and
// Document.Parts to read it.
func (p *Parser) ParseFile(path string) (*Document, error) {
	return p.load("ParseFile", path)
}

func (p *Parser) load(op, path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ParseError{Op: op, Path: path, Err: ErrFileNotFound}
		}
		return nil, &ParseError{Op: op, Path: path, Err: errors.Join(ErrUnreadable, err)}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Op: op, Path: path, Err: errors.Join(ErrUnreadable, err)}
	}
	defer f.Close()

	root, err := xmlquery.Parse(f)
	if err != nil {
		return nil, &ParseError{Op: op, Path: path, Err: errors.Join(ErrUnreadable, err)}
	}

	return &Document{
		Path: path,
		root: root,
		log:  p.log.With().Str("file", path).Logger(),
	}, nil
}

// Parse reads the job-level cost inputs of a nesting export.
func (p *Parser) Parse(path string) (models.CostInput, error) {
	doc, err := p.load("Parse", path)
	if err != nil {
		return models.CostInput{}, err
	}
	return doc.CostInput(), nil
}

// ParseParts reads every part record of a nesting export.
func (p *Parser) ParseParts(path string) ([]models.PartCostDetail, error) {
	doc, err := p.load("ParseParts", path)
	if err != nil {
		return nil, err
	}
	return doc.Parts(), nil
}

// Parts returns a sequence over the part records of path. Each iteration
// re-reads the file, so ranging twice yields the same records. A file-level
// failure is yielded once as the error of a zero record.
func (p *Parser) Parts(path string) iter.Seq2[models.PartCostDetail, error] {
	return func(yield func(models.PartCostDetail, error) bool) {
		doc, err := p.load("Parts", path)
		if err != nil {
			yield(models.PartCostDetail{}, err)
			return
		}
		for _, n := range xmlquery.Find(doc.root, "//"+tagParts) {
			if !yield(doc.part(n), nil) {
				return
			}
		}
	}
}

// CostInput extracts the job-level fields.
func (d *Document) CostInput() models.CostInput {
	nestNode := xmlquery.FindOne(d.root, "//"+tagNest)

	in := models.CostInput{
		MaterialCode:          d.text(tagStockID),
		Thickness:             d.measure(tagThickness, d.text(tagThickness)),
		FeedRate:              d.measure(tagFeedRate, d.text(tagFeedRate)),
		PierceRateSec:         d.measure(tagPierceRate, d.text(tagPierceRate)),
		SheetLength:           d.measure(tagSheetX, d.text(tagSheetX)),
		SheetWidth:            d.measure(tagSheetY, d.text(tagSheetY)),
		PierceCount:           d.count(tagPierceCount, d.text(tagPierceCount)),
		CutDistance:           d.measure(tagCutDistance, d.text(tagCutDistance)),
		SheetQuantity:         d.count(tagNestQty, d.scopedText(nestNode, tagNestQty)),
		MaterialCostPerWeight: d.measure(tagMaterialCost, d.text(tagMaterialCost)),
		Density:               d.measure(tagDensity, d.text(tagDensity)),
		ProcessTimeMinutes:    d.measure(tagProcessTime, d.scopedText(nestNode, tagProcessTime)),
	}

	d.log.Debug().
		Str("material", in.MaterialCode).
		Float64("thickness", in.Thickness).
		Float64("density", in.Density).
		Float64("cost_per_lb", in.MaterialCostPerWeight).
		Int("sheets", in.SheetQuantity).
		Float64("process_minutes", in.ProcessTimeMinutes).
		Msg("Parsed nesting export")

	return in
}

// Parts extracts every <Parts> record in document order.
func (d *Document) Parts() []models.PartCostDetail {
	nodes := xmlquery.Find(d.root, "//"+tagParts)
	parts := make([]models.PartCostDetail, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, d.part(n))
	}

	d.log.Debug().Int("parts", len(parts)).Msg("Parsed part records")
	return parts
}

func (d *Document) part(n *xmlquery.Node) models.PartCostDetail {
	name := childText(n, tagPart)
	if name == "" {
		name = unnamedPart
	}
	return models.PartCostDetail{
		Name:        name,
		Quantity:    d.count(tagPartQty, childText(n, tagPartQty)),
		CutDistance: d.measure(tagCutDistance, childText(n, tagCutDistance)),
		CutArea:     d.measure(tagAreaT, childText(n, tagAreaT)),
	}
}

// text returns the trimmed text of the first element named tag anywhere in the document.
func (d *Document) text(tag string) string {
	n := xmlquery.FindOne(d.root, "//"+tag)
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.InnerText())
}

// scopedText prefers a direct child of scope, so a job-level total under
// <Nest> wins over a part-level element with the same name.
func (d *Document) scopedText(scope *xmlquery.Node, tag string) string {
	if scope != nil {
		if n := xmlquery.FindOne(scope, tag); n != nil {
			return strings.TrimSpace(n.InnerText())
		}
	}
	return d.text(tag)
}

func (d *Document) floatValue(tag, s string) float64 {
	if s == "" {
		return 0
	}
	v, err := parseFloat(tag, s)
	if err != nil {
		d.log.Debug().Err(err).Msg("Using zero for malformed value")
		return 0
	}
	return v
}

func (d *Document) intValue(tag, s string) int {
	if s == "" {
		return 0
	}
	v, err := parseInt(tag, s)
	if err != nil {
		d.log.Debug().Err(err).Msg("Using zero for malformed value")
		return 0
	}
	return v
}

// measure reads a non-negative quantity. "(0.25)" and "-600" parse as
// numbers but are not valid lengths, rates or prices.
func (d *Document) measure(tag, s string) float64 {
	v := d.floatValue(tag, s)
	if v < 0 {
		d.log.Debug().Str("tag", tag).Str("value", s).Msg("Using zero for negative value")
		return 0
	}
	return v
}

func (d *Document) count(tag, s string) int {
	v := d.intValue(tag, s)
	if v < 0 {
		d.log.Debug().Str("tag", tag).Str("value", s).Msg("Using zero for negative value")
		return 0
	}
	return v
}

func childText(n *xmlquery.Node, tag string) string {
	c := xmlquery.FindOne(n, tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.InnerText())
}
