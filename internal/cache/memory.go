// internal/cache/memory.go
package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/newthinker/fisher/internal/core"
)

// MemoryStore is an in-memory cache store
type MemoryStore struct {
	entries map[string]Entry
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Get(ctx context.Context, ticker string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[core.NormalizeTicker(ticker)]
	if !ok {
		return nil, core.WrapError(core.ErrTickerNotFound, fmt.Errorf("%s", ticker))
	}
	return &entry, nil
}

func (m *MemoryStore) Put(ctx context.Context, ticker string, entry Entry) error {
	key := core.NormalizeTicker(ticker)
	if key == "" {
		return core.WrapError(core.ErrInvalidInput, fmt.Errorf("ticker is empty"))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry
	return nil
}

func (m *MemoryStore) Tickers(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tickers := make([]string, 0, len(m.entries))
	for t := range m.entries {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
