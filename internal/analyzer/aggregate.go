package analyzer

import (
	"fmt"

	"github.com/newthinker/fisher/internal/core"
)

// Signal thresholds on the 0-10 composite scale
const (
	BullishThreshold = 7.5
	BearishThreshold = 4.5
)

var weights = map[core.Category]float64{
	core.CategoryGrowthQuality:        0.30,
	core.CategoryMarginsStability:     0.25,
	core.CategoryManagementEfficiency: 0.20,
	core.CategoryValuation:            0.15,
	core.CategoryInsiderActivity:      0.05,
	core.CategorySentiment:            0.05,
}

// Weight returns the fixed composite weight of a category
func Weight(c core.Category) float64 {
	return weights[c]
}

// Weights returns a copy of the composite weights
func Weights() map[core.Category]float64 {
	out := make(map[core.Category]float64, len(weights))
	for c, w := range weights {
		out[c] = w
	}
	return out
}

// Classify maps a composite score to a signal. Both bounds are inclusive.
func Classify(score float64) core.Signal {
	switch {
	case score >= BullishThreshold:
		return core.SignalBullish
	case score <= BearishThreshold:
		return core.SignalBearish
	default:
		return core.SignalNeutral
	}
}

// Aggregate combines the six category results into a weighted composite.
// Every category must be present.
func Aggregate(ticker string, results map[core.Category]core.CategoryResult) (core.CompositeResult, error) {
	out := core.CompositeResult{
		Ticker:   ticker,
		MaxScore: core.MaxScore,
	}

	total := 0.0
	for _, c := range core.Categories {
		res, ok := results[c]
		if !ok {
			return core.CompositeResult{}, core.WrapError(core.ErrAnalyzerMissing,
				fmt.Errorf("no result for category %s", c))
		}
		total += res.Score * weights[c]
		out.SetCategory(c, res)
	}

	out.Score = total
	out.Signal = Classify(total)
	return out, nil
}
