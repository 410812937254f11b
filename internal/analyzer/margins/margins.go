// Package margins scores operating margin trend and volatility together with
// the gross margin level.
package margins

import (
	"fmt"

	"github.com/newthinker/fisher/internal/analyzer"
	"github.com/newthinker/fisher/internal/core"
)

const maxRaw = 6

// Analyzer implements the margin stability category
type Analyzer struct{}

func New() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Category() core.Category { return core.CategoryMarginsStability }

func (a *Analyzer) Analyze(in analyzer.Input) core.CategoryResult {
	if len(in.LineItems) < 2 {
		return analyzer.Degraded(0, "Insufficient data for margin stability analysis")
	}

	var card analyzer.Scorecard

	opMargins := analyzer.Values(in.LineItems, core.FieldOperatingMargin)
	if len(opMargins) >= 2 {
		newest, oldest := opMargins[0], opMargins[len(opMargins)-1]
		delta := newest - oldest
		switch {
		case oldest > 0 && newest >= oldest:
			card.Award(2, "operating_margin_trend", delta,
				fmt.Sprintf("Operating margin stable or improving (%s -> %s)",
					analyzer.Percent(oldest), analyzer.Percent(newest)))
		case newest > 0:
			card.Award(1, "operating_margin_trend", delta, "Operating margin positive but slightly declined")
		default:
			card.Award(0, "operating_margin_trend", delta, "Operating margin may be negative or uncertain")
		}
	} else {
		card.Note("Not enough operating margin data points")
	}

	if gm, ok := analyzer.Latest(in.LineItems, core.FieldGrossMargin); ok {
		switch {
		case gm > 0.5:
			card.Award(2, "gross_margin", gm, "Strong gross margin: "+analyzer.Percent(gm))
		case gm > 0.3:
			card.Award(1, "gross_margin", gm, "Moderate gross margin: "+analyzer.Percent(gm))
		default:
			card.Award(0, "gross_margin", gm, "Low gross margin: "+analyzer.Percent(gm))
		}
	} else {
		card.Note("No gross margin data available")
	}

	if len(opMargins) >= 3 {
		stdev := analyzer.PopulationStdDev(opMargins)
		switch {
		case stdev < 0.02:
			card.Award(2, "operating_margin_stdev", stdev, "Operating margin extremely stable over multiple years")
		case stdev < 0.05:
			card.Award(1, "operating_margin_stdev", stdev, "Operating margin reasonably stable")
		default:
			card.Award(0, "operating_margin_stdev", stdev, "Operating margin volatility is high")
		}
	} else {
		card.Note("Not enough margin data points for volatility check")
	}

	return card.Result(maxRaw)
}
