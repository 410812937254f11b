// Package valuation scores price/earnings and price/free-cash-flow multiples
// derived from market capitalization.
package valuation

import (
	"fmt"

	"github.com/newthinker/fisher/internal/analyzer"
	"github.com/newthinker/fisher/internal/core"
)

const maxRaw = 4

// Multiple bands shared by P/E and P/FCF
const (
	AttractiveMultiple = 20.0
	HighMultiple       = 30.0
)

// Analyzer implements the valuation category
type Analyzer struct{}

func New() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Category() core.Category { return core.CategoryValuation }

func (a *Analyzer) Analyze(in analyzer.Input) core.CategoryResult {
	if len(in.LineItems) == 0 || in.MarketCap == nil {
		return analyzer.Degraded(0, "Insufficient data to perform valuation")
	}
	marketCap := *in.MarketCap

	var card analyzer.Scorecard

	if ni, ok := analyzer.Latest(in.LineItems, core.FieldNetIncome); ok && ni > 0 {
		pe := marketCap / ni
		switch {
		case pe < AttractiveMultiple:
			card.Award(2, "pe", pe, fmt.Sprintf("Reasonably attractive P/E: %.2f", pe))
		case pe < HighMultiple:
			card.Award(1, "pe", pe, fmt.Sprintf("Somewhat high but possibly justifiable P/E: %.2f", pe))
		default:
			card.Award(0, "pe", pe, fmt.Sprintf("Very high P/E: %.2f", pe))
		}
	} else {
		card.Note("No positive net income for P/E calculation")
	}

	if fcf, ok := analyzer.Latest(in.LineItems, core.FieldFreeCashFlow); ok && fcf > 0 {
		pfcf := marketCap / fcf
		switch {
		case pfcf < AttractiveMultiple:
			card.Award(2, "pfcf", pfcf, fmt.Sprintf("Reasonable P/FCF: %.2f", pfcf))
		case pfcf < HighMultiple:
			card.Award(1, "pfcf", pfcf, fmt.Sprintf("Somewhat high P/FCF: %.2f", pfcf))
		default:
			card.Award(0, "pfcf", pfcf, fmt.Sprintf("Excessively high P/FCF: %.2f", pfcf))
		}
	} else {
		card.Note("No positive free cash flow for P/FCF calculation")
	}

	return card.Result(maxRaw)
}
