package payload

import (
	"encoding/json"
	"fmt"

	"github.com/newthinker/fisher/internal/core"
)

// Envelope keys under which tools return record lists
const (
	KeyFinancialLineItems = "financial_line_items"
	KeySearchResults      = "search_results"
	KeyInsiderTrades      = "insider_trades"
	KeyNews               = "news"
	KeyCompanyNews        = "company_news"
	KeyMarketCap          = "market_cap"
)

// LineItems decodes financial line items. Unknown keys are ignored and
// numeric fields may be numbers, numeric strings or null.
func LineItems(raw []byte) ([]core.LineItem, error) {
	records, err := decodeRecords(raw, KeyFinancialLineItems, KeySearchResults)
	if err != nil {
		return nil, err
	}

	items := make([]core.LineItem, 0, len(records))
	for i, rec := range records {
		li := core.LineItem{
			Ticker:       text(rec["ticker"]),
			ReportPeriod: text(rec["report_period"]),
		}
		for _, f := range core.LineItemFields {
			v, err := number(rec[string(f)])
			if err != nil {
				return nil, fmt.Errorf("line item %d: %s: %w", i, f, err)
			}
			li.Set(f, v)
		}
		items = append(items, li)
	}
	return items, nil
}

// InsiderTrades decodes insider transactions
func InsiderTrades(raw []byte) ([]core.InsiderTrade, error) {
	records, err := decodeRecords(raw, KeyInsiderTrades, KeySearchResults)
	if err != nil {
		return nil, err
	}

	trades := make([]core.InsiderTrade, 0, len(records))
	for i, rec := range records {
		shares, err := number(rec["transaction_shares"])
		if err != nil {
			return nil, fmt.Errorf("insider trade %d: %w", i, err)
		}
		trades = append(trades, core.InsiderTrade{
			Ticker:            text(rec["ticker"]),
			Name:              text(rec["name"]),
			TransactionShares: shares,
			TransactionDate:   date(rec["transaction_date"]),
		})
	}
	return trades, nil
}

// News decodes company news items
func News(raw []byte) ([]core.NewsItem, error) {
	records, err := decodeRecords(raw, KeyNews, KeyCompanyNews, KeySearchResults)
	if err != nil {
		return nil, err
	}

	news := make([]core.NewsItem, 0, len(records))
	for _, rec := range records {
		news = append(news, core.NewsItem{
			Ticker: text(rec["ticker"]),
			Title:  text(rec["title"]),
			Source: text(rec["source"]),
			URL:    text(rec["url"]),
			Date:   date(rec["date"]),
		})
	}
	return news, nil
}

// MarketCap decodes a market capitalization given as a number, a numeric
// string, or an object {"market_cap": x} that may itself be string encoded.
func MarketCap(raw []byte) (*float64, error) {
	return marketCap(raw, maxDepth)
}

func marketCap(raw []byte, depth int) (*float64, error) {
	if isNull(raw) {
		return nil, nil
	}
	if v, err := number(raw); err == nil {
		return v, nil
	} else if depth == 0 {
		return nil, err
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return marketCap([]byte(s), depth-1)
	}

	var obj map[string]json.RawMessage
	if err := Parse(raw, &obj); err != nil {
		return nil, err
	}
	inner, ok := obj[KeyMarketCap]
	if !ok {
		return nil, core.WrapError(core.ErrDecodeFailed, fmt.Errorf("no %s key in %s", KeyMarketCap, raw))
	}
	return marketCap(inner, depth-1)
}
