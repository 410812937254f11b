package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/newthinker/fisher/internal/core"
)

// Input carries every record needed to analyze one ticker.
// LineItems are ordered newest first; the engine relies on it but does not check it.
type Input struct {
	Ticker        string
	LineItems     []core.LineItem
	MarketCap     *float64
	InsiderTrades []core.InsiderTrade
	News          []core.NewsItem
}

// Analyzer scores a single category. Analyze never fails on missing data;
// it degrades to a documented default result instead.
type Analyzer interface {
	Category() core.Category
	Analyze(in Input) core.CategoryResult
}

// Validate rejects inputs that break the caller contract: an empty ticker or
// a numeric value that is NaN or infinite. Absent values are valid.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Ticker) == "" {
		return core.WrapError(core.ErrInvalidInput, fmt.Errorf("ticker is empty"))
	}
	if in.MarketCap != nil && !finite(*in.MarketCap) {
		return core.WrapError(core.ErrInvalidInput,
			fmt.Errorf("market_cap is not finite: %v", *in.MarketCap))
	}
	for i, li := range in.LineItems {
		for _, f := range core.LineItemFields {
			if v := li.Lookup(f); v != nil && !finite(*v) {
				return core.WrapError(core.ErrInvalidInput,
					fmt.Errorf("line item %d: %s is not finite: %v", i, f, *v))
			}
		}
	}
	for i, t := range in.InsiderTrades {
		if t.TransactionShares != nil && !finite(*t.TransactionShares) {
			return core.WrapError(core.ErrInvalidInput,
				fmt.Errorf("insider trade %d: transaction_shares is not finite: %v", i, *t.TransactionShares))
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
