// internal/cache/blob.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/newthinker/fisher/internal/core"
	"github.com/newthinker/fisher/internal/storage/blob"
)

const (
	blobDir = "cache"
	blobExt = ".json"
)

// BlobStore keeps one JSON document per ticker in an object store
type BlobStore struct {
	store blob.Store
}

// NewBlobStore creates a cache backed by store
func NewBlobStore(store blob.Store) *BlobStore {
	return &BlobStore{store: store}
}

func objectPath(ticker string) string {
	return path.Join(blobDir, ticker+blobExt)
}

func (b *BlobStore) Get(ctx context.Context, ticker string) (*Entry, error) {
	ticker = core.NormalizeTicker(ticker)
	data, err := b.store.Read(ctx, objectPath(ticker))
	if errors.Is(err, core.ErrObjectMissing) {
		return nil, core.WrapError(core.ErrTickerNotFound, fmt.Errorf("%s", ticker))
	}
	if err != nil {
		return nil, core.WrapError(core.ErrCacheFailed, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, core.WrapError(core.ErrCacheFailed, fmt.Errorf("decoding %s: %w", ticker, err))
	}
	return &entry, nil
}

func (b *BlobStore) Put(ctx context.Context, ticker string, entry Entry) error {
	ticker = core.NormalizeTicker(ticker)
	if ticker == "" {
		return core.WrapError(core.ErrInvalidInput, fmt.Errorf("ticker is empty"))
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return core.WrapError(core.ErrCacheFailed, fmt.Errorf("encoding %s: %w", ticker, err))
	}
	if err := b.store.Write(ctx, objectPath(ticker), data); err != nil {
		return core.WrapError(core.ErrCacheFailed, err)
	}
	return nil
}

func (b *BlobStore) Tickers(ctx context.Context) ([]string, error) {
	paths, err := b.store.List(ctx, blobDir)
	if err != nil {
		return nil, core.WrapError(core.ErrCacheFailed, err)
	}

	tickers := make([]string, 0, len(paths))
	for _, p := range paths {
		name := path.Base(p)
		if !strings.HasSuffix(name, blobExt) {
			continue
		}
		tickers = append(tickers, strings.TrimSuffix(name, blobExt))
	}
	sort.Strings(tickers)
	return tickers, nil
}

func (b *BlobStore) Close() error {
	return nil
}
