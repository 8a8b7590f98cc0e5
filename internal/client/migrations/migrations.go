// Package migrations embeds the goose migrations of the local slot store,
// one directory per SQL dialect.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

// Dir returns the migrations of one dialect ("sqlite" or "postgres").
func Dir(name string) (fs.FS, error) {
	return fs.Sub(Migrations, name)
}
