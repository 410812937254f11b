package app

import (
	"context"
	"fmt"

	"github.com/newthinker/fisher/internal/cache"
	"github.com/newthinker/fisher/internal/config"
	"github.com/newthinker/fisher/internal/core"
	"github.com/newthinker/fisher/internal/storage/blob"
)

// OpenCache builds the cache store selected by cfg
func OpenCache(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Type {
	case "", config.CacheMemory:
		return cache.NewMemoryStore(), nil
	case config.CacheLocalFS:
		fs, err := blob.NewLocalFS(cfg.Path)
		if err != nil {
			return nil, err
		}
		return cache.NewBlobStore(fs), nil
	case config.CacheS3:
		s3, err := blob.NewS3(cfg.S3)
		if err != nil {
			return nil, err
		}
		return cache.NewBlobStore(s3), nil
	case config.CachePostgres:
		return cache.NewPostgresStore(ctx, cfg.DSN, cfg.Table)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown cache type %q", cfg.Type))
	}
}
