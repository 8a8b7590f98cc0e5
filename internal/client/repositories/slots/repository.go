// Package slots stores the client's named local state slots (scan history,
// notifications, theme) as opaque JSON values.
//
// Backends: in-memory (session scope), SQLite and PostgreSQL through
// database/sql, and S3-compatible object storage. All of them share the
// Repository contract: Get on an absent key returns (nil, nil).
package slots

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes several slots as one unit where the backend supports it.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
