package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/fisher/internal/core"
)

func sampleResults() map[string]core.CompositeResult {
	res := core.CompositeResult{Ticker: "MSFT", Signal: core.SignalNeutral, Score: 5.25, MaxScore: 10}
	res.SetCategory(core.CategoryInsiderActivity, core.CategoryResult{Score: 8, Details: "Heavy insider buying: 3 buys vs. 0 sells"})
	other := core.CompositeResult{Ticker: "AAPL", Signal: core.SignalBullish, Score: 7.9, MaxScore: 10}
	return map[string]core.CompositeResult{"MSFT": res, "AAPL": other}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderText(&buf, sampleResults()))

	out := buf.String()
	assert.Less(t, strings.Index(out, "AAPL"), strings.Index(out, "MSFT"), "tickers should be sorted")
	assert.Contains(t, out, "BULLISH")
	assert.Contains(t, out, "5.25/10")
	assert.Contains(t, out, "Heavy insider buying: 3 buys vs. 0 sells")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderJSON(&buf, sampleResults()))

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "neutral", decoded["MSFT"]["signal"])
	assert.Equal(t, 10.0, decoded["MSFT"]["max_score"])
	assert.Contains(t, decoded["MSFT"], "insider_activity")
}

func TestRenderJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderJSON(&buf, nil))
	assert.Equal(t, "{}\n", buf.String())
}
