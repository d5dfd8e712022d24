package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS characters (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL UNIQUE,
        personality TEXT NOT NULL DEFAULT '',
        openness DOUBLE PRECISION NOT NULL DEFAULT 0.5,
        conscientiousness DOUBLE PRECISION NOT NULL DEFAULT 0.5,
        extraversion DOUBLE PRECISION NOT NULL DEFAULT 0.5,
        agreeableness DOUBLE PRECISION NOT NULL DEFAULT 0.5,
        neuroticism DOUBLE PRECISION NOT NULL DEFAULT 0.5,
        background TEXT,
        tone TEXT,
        world TEXT,
        prohibited JSONB,
        examples JSONB,
        creation_time TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY,
        username TEXT NOT NULL UNIQUE,
        creation_time TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS relationship_states (
        user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        character_id TEXT NOT NULL REFERENCES characters(id) ON DELETE CASCADE,
        param TEXT NOT NULL,
        value INTEGER NOT NULL DEFAULT 0,
        updated_at TIMESTAMPTZ NOT NULL,
        PRIMARY KEY (user_id, character_id, param)
    )`,
	`CREATE TABLE IF NOT EXISTS constructs (
        seq BIGSERIAL PRIMARY KEY,
        id TEXT NOT NULL UNIQUE,
        user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        character_id TEXT NOT NULL REFERENCES characters(id) ON DELETE CASCADE,
        axis JSONB NOT NULL,
        name TEXT NOT NULL,
        importance INTEGER NOT NULL DEFAULT 0,
        behavior_effect TEXT NOT NULL DEFAULT '',
        value INTEGER NOT NULL DEFAULT 0,
        creation_time TIMESTAMPTZ NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS constructs_pair_idx ON constructs (user_id, character_id)`,
	`CREATE TABLE IF NOT EXISTS chat_history (
        seq BIGSERIAL PRIMARY KEY,
        id TEXT NOT NULL UNIQUE,
        user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        character_id TEXT NOT NULL REFERENCES characters(id) ON DELETE CASCADE,
        role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
        message TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS chat_history_pair_idx ON chat_history (user_id, character_id, created_at, seq)`,
}

// EnsureSchema creates the tables and indexes when they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	return nil
}
