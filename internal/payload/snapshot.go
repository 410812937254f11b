package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/newthinker/fisher/internal/analyzer"
	"github.com/newthinker/fisher/internal/core"
)

// Limits caps how many records of each kind feed an analysis, newest first.
// They mirror the request sizes used when the data is fetched.
type Limits struct {
	LineItems     int `mapstructure:"line_items"`
	InsiderTrades int `mapstructure:"insider_trades"`
	News          int `mapstructure:"news"`
}

// DefaultLimits matches an annual request for five periods, ten insider
// trades and fifty news items.
var DefaultLimits = Limits{LineItems: 5, InsiderTrades: 10, News: 50}

// Record holds one ticker's raw tool outputs exactly as they were returned
type Record struct {
	FinancialLineItems json.RawMessage `json:"financial_line_items"`
	MarketCap          json.RawMessage `json:"market_cap"`
	InsiderTrades      json.RawMessage `json:"insider_trades"`
	CompanyNews        json.RawMessage `json:"company_news"`
}

// Empty reports whether the record carries no data at all
func (r Record) Empty() bool {
	return isNull(r.FinancialLineItems) && isNull(r.MarketCap) &&
		isNull(r.InsiderTrades) && isNull(r.CompanyNews)
}

// Input decodes the record into an analyzer input. It always returns a
// usable input: a part that fails to decode is left empty and reported in
// the returned error, tagged with the part name.
func (r Record) Input(ticker string, limits Limits) (analyzer.Input, error) {
	in := analyzer.Input{Ticker: ticker}
	var errs []error

	items, err := LineItems(r.FinancialLineItems)
	if err != nil {
		errs = append(errs, &PartError{Part: KeyFinancialLineItems, Err: err})
	}
	in.LineItems = truncate(items, limits.LineItems)

	mcap, err := MarketCap(r.MarketCap)
	if err != nil {
		errs = append(errs, &PartError{Part: KeyMarketCap, Err: err})
	}
	in.MarketCap = mcap

	trades, err := InsiderTrades(r.InsiderTrades)
	if err != nil {
		errs = append(errs, &PartError{Part: KeyInsiderTrades, Err: err})
	}
	in.InsiderTrades = truncate(trades, limits.InsiderTrades)

	news, err := News(r.CompanyNews)
	if err != nil {
		errs = append(errs, &PartError{Part: KeyCompanyNews, Err: err})
	}
	in.News = truncate(news, limits.News)

	return in, errors.Join(errs...)
}

// PartError reports which part of a record failed to decode
type PartError struct {
	Part string
	Err  error
}

func (e *PartError) Error() string {
	return fmt.Sprintf("%s: %v", e.Part, e.Err)
}

func (e *PartError) Unwrap() error {
	return e.Err
}

func truncate[T any](records []T, limit int) []T {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}

// Format is the encoding of a snapshot file
type Format string

const (
	FormatJSON  Format = "json"
	FormatHjson Format = "hjson"
	FormatYAML  Format = "yaml"
)

// FormatFromPath picks a format from the file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hjson":
		return FormatHjson
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Snapshot maps tickers to their raw tool outputs, in the shape of a
// preloaded data cache.
type Snapshot map[string]Record

// DecodeSnapshot decodes a snapshot document. Tickers are normalized and
// entries without any data are dropped.
func DecodeSnapshot(data []byte, format Format) (Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, core.WrapError(core.ErrDecodeFailed, fmt.Errorf("snapshot is empty"))
	}

	var normalized []byte
	var err error
	switch format {
	case FormatYAML:
		normalized, err = yamlToJSON(data)
	case FormatHjson:
		normalized, err = hjsonToJSON(data)
	default:
		normalized = data
	}
	if err != nil {
		return nil, core.WrapError(core.ErrDecodeFailed, err)
	}

	var raw map[string]Record
	if err := Parse(normalized, &raw); err != nil {
		return nil, err
	}

	snap := make(Snapshot, len(raw))
	for ticker, rec := range raw {
		ticker = core.NormalizeTicker(ticker)
		if ticker == "" || rec.Empty() {
			continue
		}
		snap[ticker] = rec
	}
	return snap, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return json.Marshal(generic)
}
