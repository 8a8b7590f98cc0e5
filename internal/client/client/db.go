package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/safescan/internal/client/migrations"
	"github.com/dmitrijs2005/safescan/internal/filex"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Supported database drivers for the durable slot store.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type dialect struct {
	sqlDriver string
	goose     goose.Dialect
	dir       string
}

var dialects = map[string]dialect{
	DriverSQLite:   {sqlDriver: "sqlite", goose: goose.DialectSQLite3, dir: "sqlite"},
	DriverPostgres: {sqlDriver: "pgx", goose: goose.DialectPostgres, dir: "postgres"},
}

// RunMigrations applies the embedded migrations of the given driver. It is
// idempotent.
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	d, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	fsys, err := migrations.Dir(d.dir)
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(d.goose, db, fsys)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// InitDatabase opens the database and brings its schema up to date. For a
// SQLite file the parent directory is created first.
func InitDatabase(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if driver == DriverSQLite {
		if path := filex.SQLiteFilePath(dsn); path != "" {
			if _, err := filex.EnsureParentDir(path); err != nil {
				return nil, err
			}
		}
	}
	db, err := sql.Open(d.sqlDriver, dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
