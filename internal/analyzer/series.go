package analyzer

import (
	"fmt"
	"math"

	"github.com/newthinker/fisher/internal/core"
)

// Epsilon replaces zero denominators and bounds "near zero" checks
const Epsilon = 1e-9

// Values returns the reported values of f across items, newest first.
// Periods where f is absent are skipped, so indexes do not line up with items.
func Values(items []core.LineItem, f core.Field) []float64 {
	var out []float64
	for _, li := range items {
		if v := li.Lookup(f); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// Latest returns the most recent reported value of f
func Latest(items []core.LineItem, f core.Field) (float64, bool) {
	for _, li := range items {
		if v := li.Lookup(f); v != nil {
			return *v, true
		}
	}
	return 0, false
}

// NonZero substitutes Epsilon for a zero denominator
func NonZero(v float64) float64 {
	if v == 0 {
		return Epsilon
	}
	return v
}

// PopulationStdDev calculates the population standard deviation
func PopulationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}

// Percent formats a ratio as a percentage with one decimal, e.g. 0.1234 -> "12.3%"
func Percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
