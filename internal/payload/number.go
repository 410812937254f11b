package payload

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/newthinker/fisher/internal/core"
)

var numberCleaner = strings.NewReplacer(",", "", "$", "", "_", "", " ", "")

// ParseNumber parses a human formatted number such as "3,120,000,000" or "$2.1e12".
// Blank, "null", "none" and "n/a" yield nil without error.
func ParseNumber(s string) (*float64, error) {
	s = numberCleaner.Replace(strings.TrimSpace(s))
	switch strings.ToLower(s) {
	case "", "null", "none", "n/a", "nan":
		return nil, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, core.WrapError(core.ErrDecodeFailed, fmt.Errorf("not a number: %q", s))
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) {
		return nil, core.WrapError(core.ErrDecodeFailed, fmt.Errorf("number out of range: %q", s))
	}
	return &f, nil
}

// number decodes a JSON number, a numeric string or null
func number(raw json.RawMessage) (*float64, error) {
	if isNull(raw) {
		return nil, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f, nil
	}

	if !json.Valid(raw) {
		return ParseNumber(string(raw))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, core.WrapError(core.ErrDecodeFailed, fmt.Errorf("not a number: %s", raw))
	}
	return ParseNumber(s)
}

func text(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// date parses the timestamp formats data tools emit; anything else is the zero time
func date(raw json.RawMessage) time.Time {
	s := text(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
