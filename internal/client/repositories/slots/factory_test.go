package slots

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/safescan/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("session scope is in memory", func(t *testing.T) {
		cfg := &config.Config{StorageScope: config.ScopeSession, StorageBackend: "ignored"}
		repo, closer, err := NewFromConfig(ctx, cfg)
		require.NoError(t, err)
		defer closer.Close()
		assert.IsType(t, &MemoryRepository{}, repo)
	})

	t.Run("durable sqlite is migrated and usable", func(t *testing.T) {
		cfg := &config.Config{
			StorageScope:   config.ScopeDurable,
			StorageBackend: config.BackendSQLite,
			DatabaseDSN:    filepath.Join(t.TempDir(), "slots.db"),
		}
		repo, closer, err := NewFromConfig(ctx, cfg)
		require.NoError(t, err)
		defer closer.Close()

		require.IsType(t, &SQLRepository{}, repo)
		require.NoError(t, repo.Set(ctx, "theme", []byte(`"dark"`)))
		v, err := repo.Get(ctx, "theme")
		require.NoError(t, err)
		assert.Equal(t, []byte(`"dark"`), v)
	})

	t.Run("durable s3", func(t *testing.T) {
		cfg := &config.Config{StorageScope: config.ScopeDurable, StorageBackend: config.BackendS3}
		cfg.S3 = config.S3Config{Bucket: "b", Region: "us-east-1", BaseEndpoint: "http://127.0.0.1:9000", Prefix: "p"}
		repo, closer, err := NewFromConfig(ctx, cfg)
		require.NoError(t, err)
		defer closer.Close()
		assert.IsType(t, &S3Repository{}, repo)
	})

	t.Run("errors", func(t *testing.T) {
		_, _, err := NewFromConfig(ctx, &config.Config{StorageScope: "forever"})
		require.ErrorContains(t, err, "unknown storage scope")

		_, _, err = NewFromConfig(ctx, &config.Config{StorageScope: config.ScopeDurable, StorageBackend: "tape"})
		require.ErrorContains(t, err, "unknown storage backend")

		_, _, err = NewFromConfig(ctx, &config.Config{StorageScope: config.ScopeDurable, StorageBackend: config.BackendS3})
		require.ErrorContains(t, err, "bucket")
	})
}
