package blacklist

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb), mr
}

func TestStore_AddAndContains(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := store.Contains(ctx, "some.jwt.token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Add(ctx, "some.jwt.token", time.Hour))

	ok, err = store.Contains(ctx, "some.jwt.token")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_EntryExpiresWithTokenValidity(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "short.lived.token", 10*time.Second))

	mr.FastForward(11 * time.Second)

	ok, err := store.Contains(ctx, "short.lived.token")
	require.NoError(t, err)
	assert.False(t, ok, "entry must disappear once the token itself is expired")
}

func TestStore_AddExpiredTokenIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "already.expired", -time.Minute))

	ok, err := store.Contains(ctx, "already.expired")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UnreachableStoreSurfacesError(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()
	ctx := context.Background()

	err := store.Add(ctx, "token", time.Hour)
	assert.Error(t, err)

	_, err = store.Contains(ctx, "token")
	assert.Error(t, err)
}
