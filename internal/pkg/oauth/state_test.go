package oauth

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client
}

func TestStateStore(t *testing.T) {
	store := NewStateStore(setupTestRedis(t))
	ctx := context.Background()

	t.Run("generate produces a 64 char hex token", func(t *testing.T) {
		state, err := store.GenerateState(ctx, "http://localhost:3000")
		require.NoError(t, err)
		assert.Len(t, state, 64) // 32 random bytes, hex encoded
	})

	t.Run("validate returns stored redirect URI", func(t *testing.T) {
		redirectURI := "http://localhost:3000/feed"
		state, err := store.GenerateState(ctx, redirectURI)
		require.NoError(t, err)

		result, err := store.ValidateState(ctx, state)
		require.NoError(t, err)
		assert.Equal(t, redirectURI, result)
	})

	t.Run("state is single use", func(t *testing.T) {
		state, err := store.GenerateState(ctx, "http://localhost:3000")
		require.NoError(t, err)

		_, err = store.ValidateState(ctx, state)
		require.NoError(t, err)

		_, err = store.ValidateState(ctx, state)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid or expired")
	})

	t.Run("unknown state rejected", func(t *testing.T) {
		_, err := store.ValidateState(ctx, "no-such-state")
		assert.Error(t, err)
	})

	t.Run("empty state rejected", func(t *testing.T) {
		_, err := store.ValidateState(ctx, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "empty state")
	})

	t.Run("states are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			state, err := store.GenerateState(ctx, "http://localhost:3000")
			require.NoError(t, err)
			assert.False(t, seen[state], "duplicate state generated")
			seen[state] = true
		}
	})
}
