package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStore(client, 30*time.Minute), mr
}

func TestRedisSessionStore_SetGet(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	_, ok, err := s.GetValue(ctx, "sid1", "Cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetValue(ctx, "sid1", "Cart", `[{"product_id":"P1"}]`))
	v, ok, err := s.GetValue(ctx, "sid1", "Cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"product_id":"P1"}]`, v)
	assert.Equal(t, 30*time.Minute, mr.TTL("session:sid1"))

	// 別セッションからは見えない
	_, ok, err = s.GetValue(ctx, "sid2", "Cart")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSessionStore_ClearAndDestroy(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetValue(ctx, "sid1", "Cart", "x"))
	require.NoError(t, s.SetValue(ctx, "sid1", "Other", "y"))

	require.NoError(t, s.ClearValue(ctx, "sid1", "Cart"))
	_, ok, err := s.GetValue(ctx, "sid1", "Cart")
	require.NoError(t, err)
	assert.False(t, ok)
	v, ok, err := s.GetValue(ctx, "sid1", "Other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "y", v)

	require.NoError(t, s.Destroy(ctx, "sid1"))
	assert.False(t, mr.Exists("session:sid1"))
}

func TestRedisSessionStore_Expires(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetValue(ctx, "sid1", "Cart", "x"))
	mr.FastForward(31 * time.Minute)

	_, ok, err := s.GetValue(ctx, "sid1", "Cart")
	require.NoError(t, err)
	assert.False(t, ok)
}
