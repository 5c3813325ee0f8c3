package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanpresence/internal/domain"
	"lanpresence/internal/repository"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := New(Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		store.Close()
	})
	return store, mr
}

func TestStoreAddAndRange(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "10.0.0.1", 1_700_000_000_300, "carol|c"))
	require.NoError(t, store.Add(ctx, "10.0.0.1", 1_700_000_000_100, "alice|a"))
	require.NoError(t, store.Add(ctx, "10.0.0.1", 1_700_000_000_200, "bob|b"))
	require.NoError(t, store.Add(ctx, "10.0.0.2", 1_700_000_000_000, "other|x"))

	got, err := store.Range(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, []domain.RawEntry{
		{Member: "alice|a", Score: "1700000000100"},
		{Member: "bob|b", Score: "1700000000200"},
		{Member: "carol|c", Score: "1700000000300"},
	}, got)
}

func TestStoreAddUpdatesScore(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "k", 100, "alice|a"))
	require.NoError(t, store.Add(ctx, "k", 200, "alice|a"))

	got, err := store.Range(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []domain.RawEntry{{Member: "alice|a", Score: "200"}}, got)
}

func TestStoreRangeTiesOrderedByMember(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "k", 5, "b|2"))
	require.NoError(t, store.Add(ctx, "k", 5, "a|1"))

	got, err := store.Range(ctx, "k")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a|1", got[0].Member)
	assert.Equal(t, "b|2", got[1].Member)
}

func TestStoreRangeMissingKey(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Range(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStoreRemove(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "k", 1, "a|1"))
	require.NoError(t, store.Add(ctx, "k", 2, "b|2"))
	require.NoError(t, store.Add(ctx, "k", 3, "c|3"))

	require.NoError(t, store.Remove(ctx, "k", "a|1", "c|3", "never|there"))

	members, err := mr.ZMembers("k")
	require.NoError(t, err)
	assert.Equal(t, []string{"b|2"}, members)

	t.Run("no members is a no-op", func(t *testing.T) {
		assert.NoError(t, store.Remove(ctx, "k"))
	})

	t.Run("removing the last member drops the key", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, "k", "b|2"))
		assert.False(t, mr.Exists("k"))
	})
}

func TestStoreUnavailable(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	mr.Close()

	assert.ErrorIs(t, store.Add(ctx, "k", 1, "a|1"), repository.ErrStoreUnavailable)

	_, err := store.Range(ctx, "k")
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)

	assert.ErrorIs(t, store.Remove(ctx, "k", "a|1"), repository.ErrStoreUnavailable)
	assert.ErrorIs(t, store.Ping(ctx), repository.ErrStoreUnavailable)

	// The pool may replay its last dial error briefly after the server returns
	require.NoError(t, mr.Restart())
	require.Eventually(t, func() bool {
		return store.Ping(ctx) == nil
	}, 3*time.Second, 50*time.Millisecond)
	assert.NoError(t, store.Add(ctx, "k", 2, "a|1"))
}

func TestNewWithClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := NewWithClient(client)
	defer store.Close()

	require.NoError(t, store.Add(context.Background(), "k", 7, "x|y"))
	score, err := mr.ZScore("k", "x|y")
	require.NoError(t, err)
	assert.Equal(t, float64(7), score)
}
