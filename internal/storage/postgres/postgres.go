// Package postgres opens the Postgres-backed store through pgx's
// database/sql driver. The repositories are the ones in sqldb.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aanand-mishra/records-api/internal/config"
	"github.com/aanand-mishra/records-api/internal/storage/sqldb"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const driverName = "pgx"

// New connects to cfg.Storage.DSN, applies the schema and returns the store.
func New(ctx context.Context, cfg *config.Config) (*sqldb.DB, error) {
	db, err := sql.Open(driverName, cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	store, err := sqldb.New(ctx, db, sqldb.Postgres)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres.New: %w", err)
	}
	return store, nil
}
