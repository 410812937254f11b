package analyzer

import (
	"math"
	"testing"

	"github.com/newthinker/fisher/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestValues_SkipsAbsent(t *testing.T) {
	items := []core.LineItem{
		{Revenue: core.Float(300)},
		{},
		{Revenue: core.Float(100), NetIncome: core.Float(5)},
	}

	assert.Equal(t, []float64{300, 100}, Values(items, core.FieldRevenue))
	assert.Equal(t, []float64{5}, Values(items, core.FieldNetIncome))
	assert.Empty(t, Values(items, core.FieldEBITDA))
	assert.Empty(t, Values(nil, core.FieldRevenue))
}

func TestLatest(t *testing.T) {
	items := []core.LineItem{{}, {FreeCashFlow: core.Float(-3)}, {FreeCashFlow: core.Float(7)}}

	v, ok := Latest(items, core.FieldFreeCashFlow)
	assert.True(t, ok)
	assert.Equal(t, -3.0, v)

	_, ok = Latest(items, core.FieldRevenue)
	assert.False(t, ok)
}

func TestNonZero(t *testing.T) {
	assert.Equal(t, Epsilon, NonZero(0))
	assert.Equal(t, -2.0, NonZero(-2))
}

func TestPopulationStdDev(t *testing.T) {
	assert.Equal(t, 0.0, PopulationStdDev(nil))
	assert.Equal(t, 0.0, PopulationStdDev([]float64{0.2, 0.2, 0.2}))
	assert.InDelta(t, 2.0, PopulationStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.InDelta(t, math.Sqrt(2.0/3.0)*0.01, PopulationStdDev([]float64{0.10, 0.11, 0.12}), 1e-12)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "80.0%", Percent(0.8))
	assert.Equal(t, "12.3%", Percent(0.1234))
	assert.Equal(t, "-5.0%", Percent(-0.05))
}

func TestScorecard_Result(t *testing.T) {
	var s Scorecard
	s.Award(3, "a", 1.2, "first")
	s.Note("second")
	s.Award(0, "b", 0.01, "third")

	res := s.Result(9)
	assert.InDelta(t, 10.0/3.0, res.Score, 1e-12)
	assert.Equal(t, "first; second; third", res.Details)
	assert.Equal(t, []core.Fact{{Code: "a", Value: 1.2, Points: 3}, {Code: "b", Value: 0.01}}, res.Facts)
	assert.Equal(t, 3.0, s.Raw())
}

func TestScorecard_ResultCapped(t *testing.T) {
	var s Scorecard
	s.Award(12, "x", 0, "over")
	assert.Equal(t, 10.0, s.Result(6).Score)
	assert.Equal(t, 0.0, s.Result(0).Score)
}

func TestInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		wantErr bool
	}{
		{"empty input with ticker", Input{Ticker: "AAPL"}, false},
		{"missing ticker", Input{}, true},
		{"infinite market cap", Input{Ticker: "A", MarketCap: core.Float(math.Inf(1))}, true},
		{"nan line item", Input{Ticker: "A", LineItems: []core.LineItem{{}, {GrossMargin: core.Float(math.NaN())}}}, true},
		{"nan trade", Input{Ticker: "A", InsiderTrades: []core.InsiderTrade{{TransactionShares: core.Float(math.NaN())}}}, true},
		{"nil values", Input{Ticker: "A", LineItems: []core.LineItem{{}}, InsiderTrades: []core.InsiderTrade{{}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
