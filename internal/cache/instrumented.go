package cache

import "context"

// OpRecorder observes the outcome of cache operations
type OpRecorder interface {
	RecordCacheOp(op string, err error)
}

// Instrument wraps s so every operation is reported to rec
func Instrument(s Store, rec OpRecorder) Store {
	if rec == nil {
		return s
	}
	return &instrumented{Store: s, rec: rec}
}

type instrumented struct {
	Store
	rec OpRecorder
}

func (i *instrumented) Get(ctx context.Context, ticker string) (*Entry, error) {
	entry, err := i.Store.Get(ctx, ticker)
	i.rec.RecordCacheOp("get", err)
	return entry, err
}

func (i *instrumented) Put(ctx context.Context, ticker string, entry Entry) error {
	err := i.Store.Put(ctx, ticker, entry)
	i.rec.RecordCacheOp("put", err)
	return err
}

func (i *instrumented) Tickers(ctx context.Context) ([]string, error) {
	tickers, err := i.Store.Tickers(ctx)
	i.rec.RecordCacheOp("list", err)
	return tickers, err
}
