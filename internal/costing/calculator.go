// Package costing turns nesting cost inputs into quote line items.
//
// All functions are pure. Negative or NaN inputs are read as zero, so no
// cost or unit price comes out below zero. Monetary results are rounded to cents once, when
// they are produced, using round-half-to-even; nothing is rounded again when
// line totals are read back.
package costing

import (
	"fmt"
	"math"

	"nestquote/pkg/models"
)

// JobCost is the full derivation for one imported nesting export.
type JobCost struct {
	SheetQuantity int // effective quantity, never below 1

	ProcessMinutes  float64
	FromProcessTime bool // true when the exporter's process time was used
	LaserCost       float64

	SheetVolume  float64 // in³ per sheet
	SheetWeight  float64 // lb per sheet
	TotalWeight  float64 // lb for the run
	MaterialCost float64

	LaserLine    models.LineItem
	MaterialLine models.LineItem
}

// EffectiveQuantity is the sheet quantity with a floor of 1, so a missing
// NestQty cannot zero the material cost.
func EffectiveQuantity(in models.CostInput) int {
	if in.SheetQuantity < 1 {
		return 1
	}
	return in.SheetQuantity
}

// ProcessMinutes returns the total machine time of the run. The exporter's
// process time covers every sheet already, so it is not multiplied by the
// sheet quantity; neither is the feed-rate fallback.
func ProcessMinutes(in models.CostInput) (minutes float64, fromProcessTime bool) {
	in = sanitize(in)
	if in.ProcessTimeMinutes > 0 {
		return in.ProcessTimeMinutes, true
	}
	cut := in.CutDistance / math.Max(in.FeedRate, 1)
	pierce := in.PierceRateSec * float64(in.PierceCount) / 60
	return cut + pierce, false
}

// Calculate derives laser and material cost for a job at the given hourly laser rate.
func Calculate(in models.CostInput, hourlyRate float64) JobCost {
	in = sanitize(in)
	hourlyRate = nonNegative(hourlyRate)
	qty := EffectiveQuantity(in)
	minutes, fromProcessTime := ProcessMinutes(in)

	jc := JobCost{
		SheetQuantity:   qty,
		ProcessMinutes:  minutes,
		FromProcessTime: fromProcessTime,
		LaserCost:       RoundCents(hourlyRate * minutes / 60),
	}

	jc.SheetVolume = in.SheetLength * in.SheetWidth * in.Thickness
	jc.SheetWeight = jc.SheetVolume * in.Density
	jc.TotalWeight = jc.SheetWeight * float64(qty)
	jc.MaterialCost = RoundCents(jc.TotalWeight * in.MaterialCostPerWeight)

	code := in.MaterialCode
	if code == "" {
		code = "Material"
	}

	jc.LaserLine = models.LineItem{
		Description: fmt.Sprintf("%s - Laser Time (%s)", code, FormatDuration(minutes)),
		Quantity:    1,
		UnitPrice:   jc.LaserCost,
	}
	// Unit price is re-rounded so Quantity*UnitPrice lands on the rounded total.
	jc.MaterialLine = models.LineItem{
		Description: fmt.Sprintf("%s - Material (%.2f lbs)", code, jc.TotalWeight),
		Quantity:    qty,
		UnitPrice:   RoundCents(jc.MaterialCost / float64(qty)),
	}

	return jc
}

// LineItems returns the laser-time line followed by the material line.
func LineItems(in models.CostInput, hourlyRate float64) []models.LineItem {
	jc := Calculate(in, hourlyRate)
	return []models.LineItem{jc.LaserLine, jc.MaterialLine}
}

// PriceParts fills LaserCost and MaterialCost of each part. Part time always
// comes from the feed rate: the job's process time is a run total with no
// per-part split.
func PriceParts(parts []models.PartCostDetail, in models.CostInput, hourlyRate float64) []models.PartCostDetail {
	in = sanitize(in)
	hourlyRate = nonNegative(hourlyRate)
	feed := math.Max(in.FeedRate, 1)
	priced := make([]models.PartCostDetail, len(parts))
	for i, p := range parts {
		qty := float64(max(p.Quantity, 0))
		hours := nonNegative(p.CutDistance) / feed / 60

		p.LaserCost = RoundCents(hours * hourlyRate * qty)
		p.MaterialCost = RoundCents(nonNegative(p.CutArea) * in.Thickness * in.Density * in.MaterialCostPerWeight * qty)
		priced[i] = p
	}
	return priced
}

func sanitize(in models.CostInput) models.CostInput {
	in.Thickness = nonNegative(in.Thickness)
	in.FeedRate = nonNegative(in.FeedRate)
	in.PierceRateSec = nonNegative(in.PierceRateSec)
	in.SheetLength = nonNegative(in.SheetLength)
	in.SheetWidth = nonNegative(in.SheetWidth)
	in.PierceCount = max(in.PierceCount, 0)
	in.CutDistance = nonNegative(in.CutDistance)
	in.MaterialCostPerWeight = nonNegative(in.MaterialCostPerWeight)
	in.Density = nonNegative(in.Density)
	in.ProcessTimeMinutes = nonNegative(in.ProcessTimeMinutes)
	return in
}

// nonNegative maps negatives and NaN to zero.
func nonNegative(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return v
}
