// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the directory that will hold the file at path.
// Relative paths are resolved against the working directory. The resolved
// directory is returned.
func EnsureParentDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	dir := filepath.Dir(abs)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// SQLiteFilePath returns the file path behind a SQLite DSN, or "" for
// in-memory databases. "file:" URIs lose their scheme and query.
func SQLiteFilePath(dsn string) string {
	if dsn == "" || dsn == ":memory:" {
		return ""
	}
	if rest, ok := strings.CutPrefix(dsn, "file:"); ok {
		path, query, _ := strings.Cut(rest, "?")
		if path == ":memory:" || strings.Contains(query, "mode=memory") {
			return ""
		}
		return path
	}
	return dsn
}
