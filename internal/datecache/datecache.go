// Package datecache memoizes resolved capture dates in SQLite so repeated
// passes over the same tree probe each file's metadata once.
package datecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Cache persists (path, size, mtime) -> resolved date mappings. A changed
// size or mtime invalidates the entry by missing the key.
type Cache struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS resolved_dates (
    path   TEXT    NOT NULL,
    size   INTEGER NOT NULL,
    mtime  INTEGER NOT NULL,
    taken  TEXT    NOT NULL,
    source TEXT    NOT NULL,
    PRIMARY KEY (path, size, mtime)
)`

// Open initializes or connects to the cache database at path.
func Open(path string) (*Cache, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("cache path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the database file location.
func (c *Cache) Path() string {
	return c.path
}

// Lookup returns the memoized date and its source field for the exact
// (path, size, mtime) triple, or found=false when absent.
func (c *Cache) Lookup(ctx context.Context, path string, size, mtime int64) (time.Time, string, bool, error) {
	var taken, source string
	err := c.db.QueryRowContext(ctx,
		`SELECT taken, source FROM resolved_dates WHERE path = ? AND size = ? AND mtime = ?`,
		path, size, mtime,
	).Scan(&taken, &source)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, "", false, nil
	}
	if err != nil {
		return time.Time{}, "", false, fmt.Errorf("lookup cached date: %w", err)
	}

	// RFC3339 keeps the original offset so the day boundary survives the
	// round trip.
	when, err := time.Parse(time.RFC3339, taken)
	if err != nil {
		return time.Time{}, "", false, fmt.Errorf("decode cached date %q: %w", taken, err)
	}
	return when, source, true, nil
}

// Store upserts the resolved date for the triple.
func (c *Cache) Store(ctx context.Context, path string, size, mtime int64, taken time.Time, source string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO resolved_dates (path, size, mtime, taken, source)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(path, size, mtime) DO UPDATE SET taken = excluded.taken, source = excluded.source`,
		path, size, mtime, taken.Format(time.RFC3339), source,
	)
	if err != nil {
		return fmt.Errorf("store cached date: %w", err)
	}
	return nil
}
