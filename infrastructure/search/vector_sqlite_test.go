package search_test

import (
	"context"
	"testing"

	"github.com/curatehq/curate/domain/search"
	infra "github.com/curatehq/curate/infrastructure/search"
	"github.com/curatehq/curate/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteIndex(t *testing.T) *infra.SQLiteVectorIndex {
	t.Helper()
	db := testdb.NewPlain(t)
	index, err := infra.NewSQLiteVectorIndex(context.Background(), db, nil)
	require.NoError(t, err)
	return index
}

func entry(id string, vector []float64) search.Entry {
	meta := search.NewEntryMetadata("owner-1", "https://youtu.be/"+id, "video", id)
	return search.NewEntry(id, vector, meta)
}

func TestSQLiteVectorIndex_QueryOrdersBySimilarity(t *testing.T) {
	index := newSQLiteIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("item-1", []float64{1, 0, 0})))
	require.NoError(t, index.Upsert(ctx, entry("item-2", []float64{0.9, 0.1, 0})))
	require.NoError(t, index.Upsert(ctx, entry("item-3", []float64{0, 1, 0})))

	matches, err := index.Query(ctx, []float64{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "item-1", matches[0].ID())
	assert.Equal(t, "item-2", matches[1].ID())
	assert.Equal(t, "item-3", matches[2].ID())
	assert.InDelta(t, 1.0, matches[0].Score(), 1e-9)
	assert.Greater(t, matches[1].Score(), matches[2].Score())
}

func TestSQLiteVectorIndex_QueryRespectsTopK(t *testing.T) {
	index := newSQLiteIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("item-1", []float64{1, 0})))
	require.NoError(t, index.Upsert(ctx, entry("item-2", []float64{0, 1})))
	require.NoError(t, index.Upsert(ctx, entry("item-3", []float64{1, 1})))

	matches, err := index.Query(ctx, []float64{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = index.Query(ctx, []float64{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSQLiteVectorIndex_UpsertReplaces(t *testing.T) {
	index := newSQLiteIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("item-1", []float64{1, 0})))
	require.NoError(t, index.Upsert(ctx, entry("item-1", []float64{0, 1})))

	matches, err := index.Query(ctx, []float64{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "item-1", matches[0].ID())
	assert.InDelta(t, 1.0, matches[0].Score(), 1e-9)
}

func TestSQLiteVectorIndex_Delete(t *testing.T) {
	index := newSQLiteIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("item-1", []float64{1, 0})))
	require.NoError(t, index.Delete(ctx, "item-1"))

	matches, err := index.Query(ctx, []float64{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)

	// Deleting again is a no-op.
	require.NoError(t, index.Delete(ctx, "item-1"))
}
