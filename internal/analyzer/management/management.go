// Package management scores return on equity, leverage and free cash flow
// consistency.
package management

import (
	"fmt"

	"github.com/newthinker/fisher/internal/analyzer"
	"github.com/newthinker/fisher/internal/core"
)

const maxRaw = 6

// Analyzer implements the management efficiency category.
// Unlike the other statement analyzers a single period is enough.
type Analyzer struct{}

func New() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Category() core.Category { return core.CategoryManagementEfficiency }

func (a *Analyzer) Analyze(in analyzer.Input) core.CategoryResult {
	if len(in.LineItems) == 0 {
		return analyzer.Degraded(0, "No financial data for management efficiency analysis")
	}

	var card analyzer.Scorecard

	netIncome := analyzer.Values(in.LineItems, core.FieldNetIncome)
	equity := analyzer.Values(in.LineItems, core.FieldShareholdersEquity)
	if len(netIncome) > 0 && len(equity) > 0 && len(netIncome) == len(equity) {
		if ni := netIncome[0]; ni > 0 {
			roe := ni / analyzer.NonZero(equity[0])
			switch {
			case roe > 0.2:
				card.Award(3, "roe", roe, "High ROE: "+analyzer.Percent(roe))
			case roe > 0.1:
				card.Award(2, "roe", roe, "Moderate ROE: "+analyzer.Percent(roe))
			case roe > 0:
				card.Award(1, "roe", roe, "Positive but low ROE: "+analyzer.Percent(roe))
			default:
				card.Award(0, "roe", roe, "ROE is near zero or negative: "+analyzer.Percent(roe))
			}
		} else {
			card.Note("Recent net income is zero or negative, hurting ROE")
		}
	} else {
		card.Note("Insufficient data for ROE calculation")
	}

	debt := analyzer.Values(in.LineItems, core.FieldTotalDebt)
	if len(debt) > 0 && len(equity) > 0 && len(debt) == len(equity) {
		dte := debt[0] / analyzer.NonZero(equity[0])
		switch {
		case dte < 0.3:
			card.Award(2, "debt_to_equity", dte, fmt.Sprintf("Low debt-to-equity: %.2f", dte))
		case dte < 1.0:
			card.Award(1, "debt_to_equity", dte, fmt.Sprintf("Manageable debt-to-equity: %.2f", dte))
		default:
			card.Award(0, "debt_to_equity", dte, fmt.Sprintf("High debt-to-equity: %.2f", dte))
		}
	} else {
		card.Note("Insufficient data for debt/equity analysis")
	}

	fcf := analyzer.Values(in.LineItems, core.FieldFreeCashFlow)
	if len(fcf) >= 2 {
		positive := 0
		for _, v := range fcf {
			if v > 0 {
				positive++
			}
		}
		ratio := float64(positive) / float64(len(fcf))
		if ratio > 0.8 {
			card.Award(1, "positive_fcf_ratio", ratio,
				fmt.Sprintf("Majority of periods have positive FCF (%d/%d)", positive, len(fcf)))
		} else {
			card.Award(0, "positive_fcf_ratio", ratio, "Free cash flow is inconsistent or often negative")
		}
	} else {
		card.Note("Insufficient or no FCF data to check consistency")
	}

	return card.Result(maxRaw)
}
