// Package sqlite opens the SQLite-backed store.
//
// SQLite stores everything in a single file on disk: no network, no
// separate server process. The repositories themselves live in sqldb and
// are shared with the Postgres backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/records-api/internal/config"
	"github.com/aanand-mishra/records-api/internal/storage/sqldb"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// New opens the SQLite database at cfg.Storage.Path, creates the schema
// if it does not exist yet, and returns a ready-to-use store.
func New(ctx context.Context, cfg *config.Config) (*sqldb.DB, error) {
	return Open(ctx, cfg.Storage.Path)
}

// Open is New for a bare file path.
func Open(ctx context.Context, path string) (*sqldb.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dirs: %w", err)
		}
	}

	// Foreign keys are off by default in SQLite; the cascade rules of the
	// employee tables need them. busy_timeout lets concurrent writers wait
	// for the file lock instead of failing immediately.
	dsn := "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"

	// sql.Open does NOT open a real connection yet: it just validates
	// the driver name and data source name (DSN).
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	store, err := sqldb.New(ctx, db, sqldb.SQLite)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}
	return store, nil
}
