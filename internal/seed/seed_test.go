package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanzuisann/my-chat-app/internal/services"
	"github.com/sanzuisann/my-chat-app/internal/store/sqlite"
)

const sample = `characters:
  - name: Aria
    personality: curious and kind
    openness: 0.9
    tone: soft and polite
    prohibited: [politics]
    examples:
      - user: Hi!
        assistant: Oh, hello there.
  - name: Bram
    personality: gruff blacksmith
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "characters.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad(t *testing.T) {
	f, err := Load(writeSeed(t, sample))
	require.NoError(t, err)
	require.Len(t, f.Characters, 2)

	aria := f.Characters[0].Character()
	assert.Equal(t, 0.9, aria.Openness)
	assert.Equal(t, 0.5, aria.Neuroticism)
	require.NotNil(t, aria.Tone)
	assert.Equal(t, "soft and polite", *aria.Tone)
	assert.Equal(t, "Oh, hello there.", aria.Examples[0].Assistant)

	_, err = Load(writeSeed(t, "characters: {"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply_SkipsExisting(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.OpenMemory(ctx, "seedtest")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.EnsureSchema(ctx, db))
	svc := services.NewCharacterService(sqlite.NewWithDB(db))

	f, err := Load(writeSeed(t, sample))
	require.NoError(t, err)

	n, err := Apply(ctx, svc, f, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Apply(ctx, svc, f, zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := svc.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
