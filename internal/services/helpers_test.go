package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/store"
	"github.com/sanzuisann/my-chat-app/internal/store/sqlite"
)

func newStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.OpenMemory(ctx, "svc"+strings.ReplaceAll(uuid.New().String(), "-", ""))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.EnsureSchema(ctx, db))
	return sqlite.NewWithDB(db)
}

// seedPair creates one user and one character named Aria.
func seedPair(t *testing.T, s store.Store) (*model.User, *model.Character) {
	t.Helper()
	ctx := context.Background()
	u, err := s.Users().Create(ctx, &model.User{Username: "player"})
	require.NoError(t, err)
	c := model.CharacterSpec{Name: "Aria", Personality: "curious and kind"}.Character()
	ch, err := s.Characters().Create(ctx, &c)
	require.NoError(t, err)
	return u, ch
}

func strPtr(s string) *string { return &s }
