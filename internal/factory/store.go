package factory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sanzuisann/my-chat-app/internal/config"
	storepkg "github.com/sanzuisann/my-chat-app/internal/store"
	storepg "github.com/sanzuisann/my-chat-app/internal/store/postgres"
	storesqlite "github.com/sanzuisann/my-chat-app/internal/store/sqlite"
)

// NewStore opens the store selected by cfg.DBDriver and applies the schema when
// cfg.AutoMigrate is set. The connection is verified before returning.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	var (
		db     *sql.DB
		err    error
		ensure func(context.Context, *sql.DB) error
		wrap   func(*sql.DB) storepkg.Store
	)
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err = storepg.Open(ctx, cfg.DatabaseURL)
		ensure = storepg.EnsureSchema
		wrap = func(db *sql.DB) storepkg.Store { return storepg.NewWithDB(db) }
	case config.DriverSQLite:
		db, err = storesqlite.Open(ctx, cfg.SQLitePath)
		ensure = storesqlite.EnsureSchema
		wrap = func(db *sql.DB) storepkg.Store { return storesqlite.NewWithDB(db) }
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
	}

	if cfg.AutoMigrate {
		if err := ensure(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %s schema: %w", cfg.DBDriver, err)
		}
		log.Debug().Str("driver", cfg.DBDriver).Msg("schema ensured")
	}
	return wrap(db), nil
}
