// Package growth scores multi-period revenue and EPS growth together with
// research and development intensity.
package growth

import (
	"fmt"
	"math"

	"github.com/newthinker/fisher/internal/analyzer"
	"github.com/newthinker/fisher/internal/core"
)

// maxRaw is 3 points each for revenue growth, EPS growth and R&D intensity
const maxRaw = 9

// Analyzer implements the growth and quality category
type Analyzer struct{}

func New() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Category() core.Category { return core.CategoryGrowthQuality }

func (a *Analyzer) Analyze(in analyzer.Input) core.CategoryResult {
	if len(in.LineItems) < 2 {
		return analyzer.Degraded(0, "Insufficient financial data for growth/quality analysis")
	}

	var card analyzer.Scorecard

	revenues := analyzer.Values(in.LineItems, core.FieldRevenue)
	if len(revenues) >= 2 {
		latest, oldest := revenues[0], revenues[len(revenues)-1]
		if oldest > 0 {
			scoreGrowth(&card, "revenue_growth", "revenue", (latest-oldest)/oldest)
		} else {
			card.Note("Oldest revenue is zero/negative; cannot compute growth.")
		}
	} else {
		card.Note("Not enough revenue data points for growth calculation.")
	}

	eps := analyzer.Values(in.LineItems, core.FieldEarningsPerShare)
	if len(eps) >= 2 {
		latest, oldest := eps[0], eps[len(eps)-1]
		if math.Abs(oldest) > analyzer.Epsilon {
			scoreGrowth(&card, "eps_growth", "EPS", (latest-oldest)/math.Abs(oldest))
		} else {
			card.Note("Oldest EPS near zero; skipping EPS growth calculation.")
		}
	} else {
		card.Note("Not enough EPS data points for growth calculation.")
	}

	// R&D is only compared when it was reported in as many periods as revenue.
	rnd := analyzer.Values(in.LineItems, core.FieldResearchAndDevelopment)
	if len(rnd) > 0 && len(revenues) > 0 && len(rnd) == len(revenues) {
		ratio := rnd[0] / analyzer.NonZero(revenues[0])
		switch {
		case ratio >= 0.03 && ratio <= 0.15:
			card.Award(3, "rnd_ratio", ratio,
				fmt.Sprintf("R&D ratio %s indicates significant investment in future growth", analyzer.Percent(ratio)))
		case ratio > 0.15:
			card.Award(2, "rnd_ratio", ratio,
				fmt.Sprintf("R&D ratio %s is very high (could be good if well-managed)", analyzer.Percent(ratio)))
		case ratio > 0:
			card.Award(1, "rnd_ratio", ratio,
				fmt.Sprintf("R&D ratio %s is somewhat low but still positive", analyzer.Percent(ratio)))
		default:
			card.Award(0, "rnd_ratio", ratio, "No meaningful R&D expense ratio")
		}
	} else {
		card.Note("Insufficient R&D data to evaluate")
	}

	return card.Result(maxRaw)
}

// scoreGrowth applies the shared growth bands. Exactly one band applies.
func scoreGrowth(card *analyzer.Scorecard, code, label string, growth float64) {
	pct := analyzer.Percent(growth)
	switch {
	case growth > 0.80:
		card.Award(3, code, growth, fmt.Sprintf("Very strong multi-period %s growth: %s", label, pct))
	case growth > 0.40:
		card.Award(2, code, growth, fmt.Sprintf("Moderate multi-period %s growth: %s", label, pct))
	case growth > 0.10:
		card.Award(1, code, growth, fmt.Sprintf("Slight multi-period %s growth: %s", label, pct))
	default:
		card.Award(0, code, growth, fmt.Sprintf("Minimal or negative multi-period %s growth: %s", label, pct))
	}
}
