// internal/cache/postgres.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/newthinker/fisher/internal/core"
)

// DefaultTable is the table used when none is configured
const DefaultTable = "fisher_cache"

// DBTX is satisfied by pgxpool.Pool, pgx.Conn and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps entries as JSONB rows, one per ticker
type PostgresStore struct {
	pool  *pgxpool.Pool
	db    DBTX
	table string
}

// NewPostgresStore connects to dsn, verifies the connection and creates the
// cache table when it does not exist.
func NewPostgresStore(ctx context.Context, dsn, table string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("parsing database config: %w", err))
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, core.WrapError(core.ErrCacheFailed, fmt.Errorf("creating connection pool: %w", err))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, core.WrapError(core.ErrCacheFailed, fmt.Errorf("pinging database: %w", err))
	}

	s := NewPostgresStoreWithDB(pool, table)
	s.pool = pool
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStoreWithDB uses an existing connection or transaction
func NewPostgresStoreWithDB(db DBTX, table string) *PostgresStore {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresStore{
		db:    db,
		table: pgx.Identifier{table}.Sanitize(),
	}
}

// EnsureSchema creates the cache table if needed
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			ticker     TEXT PRIMARY KEY,
			entry      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, p.table)
	if _, err := p.db.Exec(ctx, query); err != nil {
		return core.WrapError(core.ErrCacheFailed, fmt.Errorf("creating table: %w", err))
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, ticker string) (*Entry, error) {
	ticker = core.NormalizeTicker(ticker)
	query := fmt.Sprintf(`SELECT entry FROM %s WHERE ticker = $1`, p.table)

	var data []byte
	err := p.db.QueryRow(ctx, query, ticker).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
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

func (p *PostgresStore) Put(ctx context.Context, ticker string, entry Entry) error {
	ticker = core.NormalizeTicker(ticker)
	if ticker == "" {
		return core.WrapError(core.ErrInvalidInput, fmt.Errorf("ticker is empty"))
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return core.WrapError(core.ErrCacheFailed, fmt.Errorf("encoding %s: %w", ticker, err))
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (ticker, entry, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (ticker)
		DO UPDATE SET
			entry = EXCLUDED.entry,
			updated_at = NOW()`, p.table)
	if _, err := p.db.Exec(ctx, query, ticker, string(data)); err != nil {
		return core.WrapError(core.ErrCacheFailed, fmt.Errorf("saving %s: %w", ticker, err))
	}
	return nil
}

func (p *PostgresStore) Tickers(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT COALESCE(array_agg(ticker ORDER BY ticker), '{}') FROM %s`, p.table)

	var tickers []string
	if err := p.db.QueryRow(ctx, query).Scan(&tickers); err != nil {
		return nil, core.WrapError(core.ErrCacheFailed, err)
	}
	return tickers, nil
}

// Close closes the connection pool when the store owns one
func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
