package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanzuisann/my-chat-app/internal/store"
	"github.com/sanzuisann/my-chat-app/internal/store/storetest"
)

func makeMemoryStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	db, err := OpenMemory(ctx, "storetest-"+strings.ReplaceAll(uuid.New().String(), "-", ""))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, EnsureSchema(ctx, db))
	return NewWithDB(db)
}

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeMemoryStore)
}

func TestSQLiteStore_FileCompliance(t *testing.T) {
	ctx := context.Background()
	storetest.Run(t, func(t *testing.T) store.Store {
		db, err := Open(ctx, filepath.Join(t.TempDir(), "nested", "chat.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		require.NoError(t, EnsureSchema(ctx, db))
		return NewWithDB(db)
	})
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	db, err := OpenMemory(ctx, "schema-"+strings.ReplaceAll(uuid.New().String(), "-", ""))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, EnsureSchema(ctx, db))
	require.NoError(t, EnsureSchema(ctx, db))

	var fk int
	require.NoError(t, db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}
