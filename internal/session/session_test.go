package session

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"etegie-bot/backend/shared/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.True(t, strings.HasPrefix(a, Prefix))
	assert.NotEqual(t, a, b)
	assert.True(t, Valid(a))
}

func TestValid(t *testing.T) {
	assert.False(t, Valid(""))
	assert.False(t, Valid("has space"))
	assert.False(t, Valid(strings.Repeat("x", 101)))
	assert.True(t, Valid("session_1700000000000"))
}

func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	id := NewID()

	require.NoError(t, s.Bind(ctx, id, "company-a"))
	require.NoError(t, s.Bind(ctx, id, "company-a"))
	assert.ErrorIs(t, s.Bind(ctx, id, "company-b"), ErrSessionMismatch)
	assert.ErrorIs(t, s.Bind(ctx, id, ""), ErrSessionMismatch)

	anon := NewID()
	require.NoError(t, s.Bind(ctx, anon, ""))
	require.NoError(t, s.Bind(ctx, anon, ""))
	assert.ErrorIs(t, s.Bind(ctx, anon, "company-a"), ErrSessionMismatch)

	assert.NoError(t, s.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore(time.Hour, 0))
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	client, err := redis.NewRedisClient(url)
	require.NoError(t, err)
	defer client.Close()

	testStore(t, NewRedisStore(client, time.Minute))
}
