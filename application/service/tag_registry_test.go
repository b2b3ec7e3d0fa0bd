package service

import (
	"context"
	"testing"

	"github.com/curatehq/curate/domain/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagRegistry_Resolve_CreatesMissingTags(t *testing.T) {
	tags := newFakeTagStore()
	registry := NewTagRegistry(tags, nil)

	resolved, err := registry.Resolve(context.Background(), []string{"go", "music"})
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "go", resolved[0].Title())
	assert.Equal(t, "music", resolved[1].Title())
	assert.NotEmpty(t, resolved[0].ID())
	assert.NotEqual(t, resolved[0].ID(), resolved[1].ID())
}

func TestTagRegistry_Resolve_ReusesExistingTags(t *testing.T) {
	tags := newFakeTagStore()
	existing := tag.New("tag-1", "go")
	tags.mustAdd(existing)
	registry := NewTagRegistry(tags, nil)

	resolved, err := registry.Resolve(context.Background(), []string{"go"})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "tag-1", resolved[0].ID())
}

func TestTagRegistry_Resolve_Idempotent(t *testing.T) {
	tags := newFakeTagStore()
	registry := NewTagRegistry(tags, nil)
	ctx := context.Background()

	first, err := registry.Resolve(ctx, []string{"go", "music"})
	require.NoError(t, err)
	second, err := registry.Resolve(ctx, []string{"go", "music"})
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID(), second[i].ID())
	}
}

func TestTagRegistry_Resolve_SkipsBlankAndDuplicateTitles(t *testing.T) {
	registry := NewTagRegistry(newFakeTagStore(), nil)

	resolved, err := registry.Resolve(context.Background(), []string{"  go  ", "", "go", "   ", "music"})
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "go", resolved[0].Title())
	assert.Equal(t, "music", resolved[1].Title())
}

func TestTagRegistry_Resolve_EmptyInput(t *testing.T) {
	registry := NewTagRegistry(newFakeTagStore(), nil)

	resolved, err := registry.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestTagRegistry_Resolve_ReReadsWinnerOnConflict(t *testing.T) {
	tags := newFakeTagStore()
	tags.conflictOnce = true
	registry := NewTagRegistry(tags, nil)

	resolved, err := registry.Resolve(context.Background(), []string{"go"})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "winner-go", resolved[0].ID(), "loser of the create race must adopt the winning record")
}
