// Package postgres opens the Postgres-backed store (pgx stdlib driver, JSONB columns).
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sanzuisann/my-chat-app/internal/store/sqlstore"
)

// Dialect is the Postgres flavour of the shared SQL store.
var Dialect = sqlstore.Dialect{
	Name:                "postgres",
	UniqueViolation:     func(err error) bool { return hasCode(err, "23505") },
	ForeignKeyViolation: func(err error) bool { return hasCode(err, "23503") },
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB wraps an open pool as a store.
func NewWithDB(db *sql.DB) *sqlstore.Store { return sqlstore.New(db, Dialect) }
