package costing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// RoundCents rounds v to two decimals, half to even. The tie is decided on
// the shortest decimal form of v, not its binary value, so 2.675 rounds to
// 2.68. Non-finite values are returned unchanged.
func RoundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).RoundBank(2).InexactFloat64()
}

// maxDurationMinutes caps FormatDuration well inside the int range.
const maxDurationMinutes = 1e9

// FormatDuration renders minutes as "1h 5m", or "5m" under an hour. Zero,
// negative and NaN read as "0m". Values above maxDurationMinutes, including
// +Inf, are shown at the cap.
func FormatDuration(minutes float64) string {
	if !(minutes > 0) {
		return "0m"
	}
	minutes = math.Min(minutes, maxDurationMinutes)
	total := int(math.Round(minutes))
	h, m := total/60, total%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
