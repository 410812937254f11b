package management

import (
	"testing"

	"github.com/newthinker/fisher/internal/analyzer"
	"github.com/newthinker/fisher/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_ImplementsAnalyzer(t *testing.T) {
	var _ analyzer.Analyzer = (*Analyzer)(nil)
}

func TestAnalyze_NoData(t *testing.T) {
	res := New().Analyze(analyzer.Input{Ticker: "AAPL"})
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, "No financial data for management efficiency analysis", res.Details)
}

func TestAnalyze_SingleItemROEBoundary(t *testing.T) {
	// 100 / 500 is exactly 0.2, which falls to the moderate band.
	res := New().Analyze(analyzer.Input{Ticker: "AAPL", LineItems: []core.LineItem{
		{NetIncome: core.Float(100), ShareholdersEquity: core.Float(500)},
	}})

	assert.InDelta(t, 2.0/6*10, res.Score, 1e-9)
	assert.Equal(t,
		"Moderate ROE: 20.0%; "+
			"Insufficient data for debt/equity analysis; "+
			"Insufficient or no FCF data to check consistency",
		res.Details)
	require.Len(t, res.Facts, 1)
	assert.Equal(t, core.Fact{Code: "roe", Value: 0.2, Points: 2}, res.Facts[0])
}

func TestAnalyze_ROE(t *testing.T) {
	tests := []struct {
		name   string
		ni     float64
		eq     float64
		want   string
		points float64
	}{
		{"high", 101, 500, "High ROE: 20.2%", 3},
		{"low", 25, 500, "Positive but low ROE: 5.0%", 1},
		{"negative equity", 25, -500, "ROE is near zero or negative: -5.0%", 0},
		{"zero equity", 25, 0, "High ROE:", 3},
		{"loss", -25, 500, "Recent net income is zero or negative, hurting ROE", 0},
		{"break even", 0, 500, "Recent net income is zero or negative, hurting ROE", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New().Analyze(analyzer.Input{Ticker: "AAPL", LineItems: []core.LineItem{
				{NetIncome: core.Float(tt.ni), ShareholdersEquity: core.Float(tt.eq)},
			}})
			assert.Contains(t, res.Details, tt.want)
			assert.InDelta(t, tt.points/6*10, res.Score, 1e-9)
		})
	}
}

func TestAnalyze_ROEMisaligned(t *testing.T) {
	res := New().Analyze(analyzer.Input{Ticker: "AAPL", LineItems: []core.LineItem{
		{NetIncome: core.Float(100), ShareholdersEquity: core.Float(500)},
		{NetIncome: core.Float(90)},
	}})
	assert.Contains(t, res.Details, "Insufficient data for ROE calculation")
}

func TestAnalyze_DebtToEquity(t *testing.T) {
	tests := []struct {
		debt   float64
		want   string
		points float64
	}{
		{100, "Low debt-to-equity: 0.20", 2},
		{150, "Manageable debt-to-equity: 0.30", 1},
		{499, "Manageable debt-to-equity: 1.00", 1},
		{500, "High debt-to-equity: 1.00", 0},
	}

	for _, tt := range tests {
		res := New().Analyze(analyzer.Input{Ticker: "AAPL", LineItems: []core.LineItem{
			{TotalDebt: core.Float(tt.debt), ShareholdersEquity: core.Float(500)},
		}})
		assert.Contains(t, res.Details, tt.want)
		assert.InDelta(t, tt.points/6*10, res.Score, 1e-9)
	}
}

func TestAnalyze_FreeCashFlow(t *testing.T) {
	fcfItems := func(values ...float64) []core.LineItem {
		items := make([]core.LineItem, len(values))
		for i, v := range values {
			items[i] = core.LineItem{FreeCashFlow: core.Float(v)}
		}
		return items
	}

	t.Run("all positive", func(t *testing.T) {
		res := New().Analyze(analyzer.Input{Ticker: "A", LineItems: fcfItems(5, 4, 3, 2, 1)})
		assert.Contains(t, res.Details, "Majority of periods have positive FCF (5/5)")
		assert.InDelta(t, 1.0/6*10, res.Score, 1e-9)
	})

	t.Run("four of five is not enough", func(t *testing.T) {
		res := New().Analyze(analyzer.Input{Ticker: "A", LineItems: fcfItems(5, 4, 0, 2, 1)})
		assert.Contains(t, res.Details, "Free cash flow is inconsistent or often negative")
		assert.Equal(t, 0.0, res.Score)
	})

	t.Run("single value", func(t *testing.T) {
		res := New().Analyze(analyzer.Input{Ticker: "A", LineItems: fcfItems(5)})
		assert.Contains(t, res.Details, "Insufficient or no FCF data to check consistency")
	})
}

func TestAnalyze_MaxScore(t *testing.T) {
	items := []core.LineItem{
		{NetIncome: core.Float(150), ShareholdersEquity: core.Float(500), TotalDebt: core.Float(50), FreeCashFlow: core.Float(120)},
		{NetIncome: core.Float(120), ShareholdersEquity: core.Float(450), TotalDebt: core.Float(60), FreeCashFlow: core.Float(100)},
	}
	res := New().Analyze(analyzer.Input{Ticker: "AAPL", LineItems: items})
	assert.Equal(t, 10.0, res.Score)
}

func TestAnalyze_Idempotent(t *testing.T) {
	in := analyzer.Input{Ticker: "AAPL", LineItems: []core.LineItem{
		{NetIncome: core.Float(70), ShareholdersEquity: core.Float(400), TotalDebt: core.Float(300), FreeCashFlow: core.Float(-5)},
		{NetIncome: core.Float(60), ShareholdersEquity: core.Float(380), TotalDebt: core.Float(290), FreeCashFlow: core.Float(8)},
	}}
	a := New()
	assert.Equal(t, a.Analyze(in), a.Analyze(in))
}
