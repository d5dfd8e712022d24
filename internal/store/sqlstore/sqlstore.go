// Package sqlstore implements store.Store over database/sql. The Postgres and
// SQLite drivers share these queries and differ only in their Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/store"
)

// Dialect captures the driver-specific pieces. Queries are written with $N
// placeholders; Rebind, when set, rewrites them for the driver.
type Dialect struct {
	Name                string
	Rebind              func(query string) string
	UniqueViolation     func(err error) bool
	ForeignKeyViolation func(err error) bool
}

var dollarParam = regexp.MustCompile(`\$(\d+)`)

// NumberedQuestion rewrites $N placeholders as ?N.
func NumberedQuestion(query string) string {
	return dollarParam.ReplaceAllString(query, "?$1")
}

// Store is the shared database/sql implementation.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB, d Dialect) *Store { return &Store{db: db, dialect: d} }

// DB exposes the underlying pool.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Characters() store.Characters       { return &characters{s} }
func (s *Store) Users() store.Users                 { return &users{s} }
func (s *Store) Relationships() store.Relationships { return &relationships{s} }
func (s *Store) Constructs() store.Constructs       { return &constructs{s} }
func (s *Store) History() store.History             { return &history{s} }

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) q(query string) string {
	if s.dialect.Rebind != nil {
		return s.dialect.Rebind(query)
	}
	return query
}

// translate maps driver errors onto the model sentinels.
func (s *Store) translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", what, model.ErrNotFound)
	case s.dialect.UniqueViolation != nil && s.dialect.UniqueViolation(err):
		return fmt.Errorf("%s: %w", what, model.ErrConflict)
	case s.dialect.ForeignKeyViolation != nil && s.dialect.ForeignKeyViolation(err):
		return fmt.Errorf("%s: referenced user or character: %w", what, model.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func execAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// now is the store clock, truncated to the precision both drivers keep.
func now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// encodeJSON returns nil for nil slices so absent lists stay NULL.
func encodeJSON[T any](v []T) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeJSON[T any](raw []byte) ([]T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}
