package core

import (
	"strings"
	"time"
)

// Field names a numeric line item field
type Field string

const (
	FieldRevenue                Field = "revenue"
	FieldNetIncome              Field = "net_income"
	FieldEarningsPerShare       Field = "earnings_per_share"
	FieldFreeCashFlow           Field = "free_cash_flow"
	FieldResearchAndDevelopment Field = "research_and_development"
	FieldOperatingIncome        Field = "operating_income"
	FieldOperatingMargin        Field = "operating_margin"
	FieldGrossMargin            Field = "gross_margin"
	FieldTotalDebt              Field = "total_debt"
	FieldShareholdersEquity     Field = "shareholders_equity"
	FieldCashAndEquivalents     Field = "cash_and_equivalents"
	FieldEBIT                   Field = "ebit"
	FieldEBITDA                 Field = "ebitda"
)

// LineItemFields lists every numeric line item field in reporting order
var LineItemFields = []Field{
	FieldRevenue,
	FieldNetIncome,
	FieldEarningsPerShare,
	FieldFreeCashFlow,
	FieldResearchAndDevelopment,
	FieldOperatingIncome,
	FieldOperatingMargin,
	FieldGrossMargin,
	FieldTotalDebt,
	FieldShareholdersEquity,
	FieldCashAndEquivalents,
	FieldEBIT,
	FieldEBITDA,
}

// LineItem is one reporting period's financial statement snapshot.
// A nil field means the value was not reported for the period.
type LineItem struct {
	Ticker       string `json:"ticker,omitempty"`
	ReportPeriod string `json:"report_period,omitempty"`

	Revenue                *float64 `json:"revenue"`
	NetIncome              *float64 `json:"net_income"`
	EarningsPerShare       *float64 `json:"earnings_per_share"`
	FreeCashFlow           *float64 `json:"free_cash_flow"`
	ResearchAndDevelopment *float64 `json:"research_and_development"`
	OperatingIncome        *float64 `json:"operating_income"`
	OperatingMargin        *float64 `json:"operating_margin"`
	GrossMargin            *float64 `json:"gross_margin"`
	TotalDebt              *float64 `json:"total_debt"`
	ShareholdersEquity     *float64 `json:"shareholders_equity"`
	CashAndEquivalents     *float64 `json:"cash_and_equivalents"`
	EBIT                   *float64 `json:"ebit"`
	EBITDA                 *float64 `json:"ebitda"`
}

// Lookup returns the value of a field, or nil when it is absent or unknown
func (li LineItem) Lookup(f Field) *float64 {
	if p := li.field(f); p != nil {
		return *p
	}
	return nil
}

// Set stores v under f. Unknown fields are ignored.
func (li *LineItem) Set(f Field, v *float64) {
	if p := li.field(f); p != nil {
		*p = v
	}
}

func (li *LineItem) field(f Field) **float64 {
	switch f {
	case FieldRevenue:
		return &li.Revenue
	case FieldNetIncome:
		return &li.NetIncome
	case FieldEarningsPerShare:
		return &li.EarningsPerShare
	case FieldFreeCashFlow:
		return &li.FreeCashFlow
	case FieldResearchAndDevelopment:
		return &li.ResearchAndDevelopment
	case FieldOperatingIncome:
		return &li.OperatingIncome
	case FieldOperatingMargin:
		return &li.OperatingMargin
	case FieldGrossMargin:
		return &li.GrossMargin
	case FieldTotalDebt:
		return &li.TotalDebt
	case FieldShareholdersEquity:
		return &li.ShareholdersEquity
	case FieldCashAndEquivalents:
		return &li.CashAndEquivalents
	case FieldEBIT:
		return &li.EBIT
	case FieldEBITDA:
		return &li.EBITDA
	default:
		return nil
	}
}

// InsiderTrade is a single insider transaction. Positive shares are buys,
// negative shares are sells.
type InsiderTrade struct {
	Ticker            string    `json:"ticker,omitempty"`
	Name              string    `json:"name,omitempty"`
	TransactionShares *float64  `json:"transaction_shares"`
	TransactionDate   time.Time `json:"transaction_date,omitempty"`
}

// NewsItem is a company news headline
type NewsItem struct {
	Ticker string    `json:"ticker,omitempty"`
	Title  string    `json:"title"`
	Source string    `json:"source,omitempty"`
	URL    string    `json:"url,omitempty"`
	Date   time.Time `json:"date,omitempty"`
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// NormalizeTicker trims and upper-cases a ticker symbol
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Category identifies one scored area of the analysis
type Category string

const (
	CategoryGrowthQuality        Category = "growth_quality"
	CategoryMarginsStability     Category = "margins_stability"
	CategoryManagementEfficiency Category = "management_efficiency"
	CategoryValuation            Category = "valuation_analysis"
	CategoryInsiderActivity      Category = "insider_activity"
	CategorySentiment            Category = "sentiment_analysis"
)

// Categories lists all categories in aggregation order
var Categories = []Category{
	CategoryGrowthQuality,
	CategoryMarginsStability,
	CategoryManagementEfficiency,
	CategoryValuation,
	CategoryInsiderActivity,
	CategorySentiment,
}

// Fact is one discrete scoring observation
type Fact struct {
	Code   string  `json:"code"`
	Value  float64 `json:"value"`
	Points float64 `json:"points"`
}

// CategoryResult is the score of a single category on a 0-10 scale
type CategoryResult struct {
	Score   float64 `json:"score"`
	Details string  `json:"details"`
	Facts   []Fact  `json:"facts,omitempty"`
}

// Signal represents the investment stance derived from the composite score
type Signal string

const (
	SignalBullish Signal = "bullish"
	SignalNeutral Signal = "neutral"
	SignalBearish Signal = "bearish"
)

// MaxScore is the top of every score scale
const MaxScore = 10.0

// CompositeResult is the weighted analysis of one ticker
type CompositeResult struct {
	Ticker   string  `json:"ticker,omitempty"`
	Signal   Signal  `json:"signal"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`

	GrowthQuality        CategoryResult `json:"growth_quality"`
	MarginsStability     CategoryResult `json:"margins_stability"`
	ManagementEfficiency CategoryResult `json:"management_efficiency"`
	Valuation            CategoryResult `json:"valuation_analysis"`
	InsiderActivity      CategoryResult `json:"insider_activity"`
	Sentiment            CategoryResult `json:"sentiment_analysis"`
}

// Category returns the result stored under c
func (r CompositeResult) Category(c Category) (CategoryResult, bool) {
	switch c {
	case CategoryGrowthQuality:
		return r.GrowthQuality, true
	case CategoryMarginsStability:
		return r.MarginsStability, true
	case CategoryManagementEfficiency:
		return r.ManagementEfficiency, true
	case CategoryValuation:
		return r.Valuation, true
	case CategoryInsiderActivity:
		return r.InsiderActivity, true
	case CategorySentiment:
		return r.Sentiment, true
	default:
		return CategoryResult{}, false
	}
}

// SetCategory stores res under c. Unknown categories are ignored.
func (r *CompositeResult) SetCategory(c Category, res CategoryResult) {
	switch c {
	case CategoryGrowthQuality:
		r.GrowthQuality = res
	case CategoryMarginsStability:
		r.MarginsStability = res
	case CategoryManagementEfficiency:
		r.ManagementEfficiency = res
	case CategoryValuation:
		r.Valuation = res
	case CategoryInsiderActivity:
		r.InsiderActivity = res
	case CategorySentiment:
		r.Sentiment = res
	}
}
