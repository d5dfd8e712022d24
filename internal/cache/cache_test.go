package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMemory_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(16, time.Hour)
	m.now = func() time.Time { return clock }

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	clock = clock.Add(time.Minute)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, m.Len())

	require.NoError(t, m.Set(ctx, "default-ttl", "x", 0))
	v, err = m.Get(ctx, "default-ttl")
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

func TestMemory_BoundedBySize(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(100, time.Hour)

	for i := 0; i < 10_000; i++ {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("msg-%d", i), "intent", time.Hour))
	}
	assert.Equal(t, 100, m.Len())

	_, err := m.Get(ctx, "msg-0")
	assert.ErrorIs(t, err, ErrMiss)
	v, err := m.Get(ctx, "msg-9999")
	require.NoError(t, err)
	assert.Equal(t, "intent", v)
}

func TestMemory_CacheWideTTLExpires(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10, 20*time.Millisecond)

	require.NoError(t, m.Set(ctx, "k", "v", 0))
	time.Sleep(60 * time.Millisecond)

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestNewMemory_NonPositiveSizeUsesDefault(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0, time.Hour)
	for i := 0; i < DefaultMemorySize+10; i++ {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("k%d", i), "v", 0))
	}
	assert.Equal(t, DefaultMemorySize, m.Len())
}

// redisURL returns CHAT_SERVER_TEST_REDIS_URL or starts a container; skips when neither works.
func redisURL(t *testing.T) string {
	t.Helper()
	if u := os.Getenv("CHAT_SERVER_TEST_REDIS_URL"); u != "" {
		return u
	}
	if testing.Short() {
		t.Skip("short mode; skipping redis integration test")
	}
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })
	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestRedis_Integration(t *testing.T) {
	ctx := context.Background()
	r, err := NewRedis(ctx, redisURL(t), "chat-test")
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	assert.Equal(t, "chat-test:intent:abc", r.Key("intent", "abc"))

	_, err = r.Get(ctx, "missing-key")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, r.Set(ctx, "k", "v", time.Minute))
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	hc := NewHealthChecker(r, zerolog.Nop(), time.Second)
	assert.True(t, hc.Probe(ctx))
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not a url", "x")
	assert.Error(t, err)
}
