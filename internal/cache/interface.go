// internal/cache/interface.go
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/newthinker/fisher/internal/core"
	"github.com/newthinker/fisher/internal/payload"
)

// Entry is one ticker's preloaded tool outputs plus its latest analysis.
// The raw outputs are kept verbatim; Input decodes them on demand.
type Entry struct {
	payload.Record

	AnalysisData *core.CompositeResult `json:"analysis_data"`
	AnalysisDate string                `json:"analysis_date,omitempty"`
	RunID        string                `json:"run_id,omitempty"`
}

// WithAnalysis returns a copy of e carrying res, stamped with the UTC date of now
// and a fresh run identifier. The raw outputs are kept.
func (e Entry) WithAnalysis(res core.CompositeResult, now time.Time) Entry {
	e.AnalysisData = &res
	e.AnalysisDate = now.UTC().Format(time.DateOnly)
	e.RunID = uuid.NewString()
	return e
}

// Store persists cache entries keyed by normalized ticker
type Store interface {
	// Get returns the entry for ticker, or an error matching core.ErrTickerNotFound
	Get(ctx context.Context, ticker string) (*Entry, error)

	// Put inserts or replaces the entry for ticker
	Put(ctx context.Context, ticker string, entry Entry) error

	// Tickers lists cached tickers in ascending order
	Tickers(ctx context.Context) ([]string, error)

	// Close releases backend resources
	Close() error
}
