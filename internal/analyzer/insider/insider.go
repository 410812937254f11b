// Package insider scores the direction of recent insider transactions.
package insider

import (
	"fmt"

	"github.com/newthinker/fisher/internal/analyzer"
	"github.com/newthinker/fisher/internal/core"
)

// NeutralScore is returned when trades carry no directional signal
const NeutralScore = 5.0

// Analyzer implements the insider activity category
type Analyzer struct{}

func New() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Category() core.Category { return core.CategoryInsiderActivity }

func (a *Analyzer) Analyze(in analyzer.Input) core.CategoryResult {
	if len(in.InsiderTrades) == 0 {
		return analyzer.Degraded(NeutralScore, "No insider trades data; defaulting to neutral")
	}

	buys, sells := Count(in.InsiderTrades)
	total := buys + sells
	if total == 0 {
		return analyzer.Degraded(NeutralScore, "No buy/sell transactions found; neutral")
	}

	ratio := float64(buys) / float64(total)

	var score float64
	var label string
	switch {
	case ratio > 0.7:
		score, label = 8, "Heavy insider buying"
	case ratio > 0.4:
		score, label = 6, "Moderate insider buying"
	default:
		score, label = 4, "Mostly insider selling"
	}

	return core.CategoryResult{
		Score:   score,
		Details: fmt.Sprintf("%s: %d buys vs. %d sells", label, buys, sells),
		Facts:   []core.Fact{{Code: "buy_ratio", Value: ratio, Points: score}},
	}
}

// Count classifies trades by the sign of their share count.
// Trades with zero or missing shares are neither buys nor sells.
func Count(trades []core.InsiderTrade) (buys, sells int) {
	for _, t := range trades {
		if t.TransactionShares == nil {
			continue
		}
		switch shares := *t.TransactionShares; {
		case shares > 0:
			buys++
		case shares < 0:
			sells++
		}
	}
	return buys, sells
}
