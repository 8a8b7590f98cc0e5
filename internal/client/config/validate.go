package config

import (
	"errors"
	"fmt"
)

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return errors.New("at least one endpoint is required")
	}
	switch c.StorageScope {
	case ScopeSession:
	case ScopeDurable:
		switch c.StorageBackend {
		case BackendSQLite, BackendPostgres:
			if c.DatabaseDSN == "" {
				return fmt.Errorf("%s backend requires database_dsn", c.StorageBackend)
			}
		case BackendS3:
			if c.S3.Bucket == "" {
				return errors.New("s3 backend requires s3.bucket")
			}
		default:
			return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
		}
	default:
		return fmt.Errorf("unknown storage scope: %s", c.StorageScope)
	}
	if c.OnlineCheckInterval <= 0 {
		return errors.New("online check interval must be positive")
	}
	if c.RequestTimeout < 0 {
		return errors.New("request timeout must not be negative")
	}
	return nil
}
