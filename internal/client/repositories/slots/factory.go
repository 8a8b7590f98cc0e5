package slots

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/safescan/internal/client/client"
	"github.com/dmitrijs2005/safescan/internal/client/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewFromConfig creates the Repository selected by the storage scope and
// backend. The returned Closer releases the underlying database, if any.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Repository, io.Closer, error) {
	switch cfg.StorageScope {
	case config.ScopeSession:
		return NewMemoryRepository(), nopCloser{}, nil
	case config.ScopeDurable:
	default:
		return nil, nil, fmt.Errorf("unknown storage scope: %s", cfg.StorageScope)
	}

	switch cfg.StorageBackend {
	case config.BackendSQLite:
		db, err := client.InitDatabase(ctx, client.DriverSQLite, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return NewSQLiteRepository(db), db, nil
	case config.BackendPostgres:
		db, err := client.InitDatabase(ctx, client.DriverPostgres, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return NewPostgresRepository(db), db, nil
	case config.BackendS3:
		if cfg.S3.Bucket == "" {
			return nil, nil, fmt.Errorf("s3 backend requires a bucket")
		}
		api, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return NewS3Repository(api, cfg.S3.Bucket, cfg.S3.Prefix), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}
