package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanpresence/internal/domain"
	"lanpresence/internal/repository"
)

func TestStoreOrdering(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "k", 20, "b|2"))
	require.NoError(t, s.Add(ctx, "k", 10, "c|3"))
	require.NoError(t, s.Add(ctx, "k", 20, "a|1"))

	got, err := s.Range(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []domain.RawEntry{
		{Member: "c|3", Score: "10"},
		{Member: "a|1", Score: "20"},
		{Member: "b|2", Score: "20"},
	}, got)
}

func TestStoreRemove(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "k", 1, "a|1"))
	require.NoError(t, s.Add(ctx, "k", 2, "b|2"))

	require.NoError(t, s.Remove(ctx, "k", "a|1", "zzz"))
	assert.Equal(t, 1, s.Len("k"))

	require.NoError(t, s.Remove(ctx, "k", "b|2"))
	assert.Zero(t, s.Len("k"))
	require.NoError(t, s.Remove(ctx, "missing", "x"))
}

func TestStoreMissingKey(t *testing.T) {
	got, err := New().Range(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStoreClosed(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Add(ctx, "k", 1, "a"), repository.ErrStoreUnavailable)
	_, err := s.Range(ctx, "k")
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	assert.ErrorIs(t, s.Remove(ctx, "k", "a"), repository.ErrStoreUnavailable)
	assert.ErrorIs(t, s.Ping(ctx), repository.ErrStoreUnavailable)
}
