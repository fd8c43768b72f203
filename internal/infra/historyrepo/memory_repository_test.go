package historyrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
)

func TestMemoryRepositoryNewestFirst(t *testing.T) {
	repo := NewMemoryRepository(10)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Append(ctx, crop.Record{ID: id}))
	}

	got, err := repo.Latest(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b"}, ids(got))

	got, err = repo.Latest(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b", "a"}, ids(got))
}

func TestMemoryRepositoryWrapsAtCapacity(t *testing.T) {
	repo := NewMemoryRepository(3)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, repo.Append(ctx, crop.Record{ID: id}))
	}

	got, err := repo.Latest(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"e", "d", "c"}, ids(got))
}

func TestMemoryRepositoryEmpty(t *testing.T) {
	got, err := NewMemoryRepository(0).Latest(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, got)
}

func ids(records []crop.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
