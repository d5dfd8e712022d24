package chatservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanzuisann/my-chat-app/internal/api"
	"github.com/sanzuisann/my-chat-app/internal/config"
	"github.com/sanzuisann/my-chat-app/internal/factory"
	"github.com/sanzuisann/my-chat-app/internal/llm/llmtest"
)

func TestStartupHealthTimeout(t *testing.T) {
	assert.Equal(t, time.Minute, startupHealthTimeout(time.Second))
	assert.Equal(t, 4*time.Minute, startupHealthTimeout(2*time.Minute))
}

func testDeps(t *testing.T, cfg *config.Config) *deps {
	t.Helper()
	ctx := context.Background()
	st, err := factory.NewStore(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	c, r, err := factory.NewCache(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	d := &deps{store: st, llm: &llmtest.Fake{Reply: "Welcome."}, cache: c, redis: r}
	t.Cleanup(d.close)
	return d
}

func TestWiring_SeedHealthAndChat(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "chat.db")
	cfg.SeedFile = filepath.Join(t.TempDir(), "characters.yaml")
	require.NoError(t, os.WriteFile(cfg.SeedFile, []byte("characters:\n  - name: Aria\n    personality: kind\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := testDeps(t, cfg)
	svc := buildServices(cfg, d, zerolog.Nop())
	require.NoError(t, seedCharacters(ctx, cfg, svc.Characters, zerolog.Nop()))

	svcHealth := startHealthCheckers(ctx, cfg, zerolog.Nop(), d)
	require.NoError(t, waitUntilHealthy(ctx, cfg, svcHealth))

	srv := httptest.NewServer(api.NewRouter(svc, svcHealth, cfg.CORSAllowedOrigins, zerolog.Nop()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/characters/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	aria, err := svc.Characters.GetCharacterByName(ctx, "Aria")
	require.NoError(t, err)
	body := `{"username":"player"}`
	resp2, err := http.Post(srv.URL+"/users/", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	_ = resp2.Body.Close()
	assert.Equal(t, http.StatusCreated, resp2.StatusCode)
	assert.NotEmpty(t, aria.ID)
}

func TestWaitUntilHealthy_ContextCancelled(t *testing.T) {
	cfg := config.NewForTesting()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := testDeps(t, cfg)
	svcHealth := startHealthCheckers(ctx, cfg, zerolog.Nop(), d)
	assert.ErrorIs(t, waitUntilHealthy(ctx, cfg, svcHealth), context.Canceled)
}
