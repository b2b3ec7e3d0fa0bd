package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/curatehq/curate/domain/item"
	"github.com/curatehq/curate/domain/tag"
	"github.com/curatehq/curate/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deletionFixture struct {
	items   *fakeItemStore
	tags    *fakeTagStore
	index   *fakeVectorIndex
	closed  *atomic.Bool
	service Deletion
}

func newDeletionFixture() *deletionFixture {
	tags := newFakeTagStore()
	f := &deletionFixture{
		items:  newFakeItemStore(tags),
		tags:   tags,
		index:  newFakeVectorIndex(),
		closed: &atomic.Bool{},
	}
	f.service = NewDeletion(f.items, f.tags, f.index, f.closed, nil)
	return f
}

func (f *deletionFixture) seedItem(t *testing.T, id, ownerID string, tagIDs []string, vectorRef string) {
	t.Helper()
	it := item.Reconstruct(id, ownerID, "https://youtu.be/abc12345678", item.KindVideo, "demo",
		item.Metadata{}, false, tagIDs, vectorRef, time.Now(), time.Now())
	require.NoError(t, f.items.Create(context.Background(), it))
}

func TestDeletion_Delete(t *testing.T) {
	f := newDeletionFixture()
	f.tags.mustAdd(tag.New("tag-1", "go"))
	f.seedItem(t, "item-1", "owner-1", []string{"tag-1"}, "item-1")

	require.NoError(t, f.service.Delete(context.Background(), "owner-1", "item-1"))

	_, err := f.items.Get(context.Background(), "item-1")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Equal(t, []string{"item-1"}, f.index.deleted)
	assert.Equal(t, []string{"tag-1"}, f.tags.deleted, "last reference gone, tag must be swept")
}

func TestDeletion_Delete_SharedTagSurvives(t *testing.T) {
	f := newDeletionFixture()
	f.tags.mustAdd(tag.New("tag-1", "go"))
	f.seedItem(t, "item-1", "owner-1", []string{"tag-1"}, "item-1")
	f.seedItem(t, "item-2", "owner-1", []string{"tag-1"}, "item-2")

	require.NoError(t, f.service.Delete(context.Background(), "owner-1", "item-1"))
	assert.Empty(t, f.tags.deleted, "tag still referenced by item-2")

	require.NoError(t, f.service.Delete(context.Background(), "owner-1", "item-2"))
	assert.Equal(t, []string{"tag-1"}, f.tags.deleted, "second deletion removes the last reference")
}

func TestDeletion_Delete_VectorFailureTolerated(t *testing.T) {
	f := newDeletionFixture()
	f.index.deleteErr = errors.New("index unreachable")
	f.seedItem(t, "item-1", "owner-1", nil, "item-1")

	require.NoError(t, f.service.Delete(context.Background(), "owner-1", "item-1"),
		"an orphaned vector is acceptable, a dangling document is not")

	_, err := f.items.Get(context.Background(), "item-1")
	assert.Error(t, err)
}

func TestDeletion_Delete_SkipsVectorForUnindexedItem(t *testing.T) {
	f := newDeletionFixture()
	f.seedItem(t, "item-1", "owner-1", nil, "")

	require.NoError(t, f.service.Delete(context.Background(), "owner-1", "item-1"))
	assert.Empty(t, f.index.deleted)
}

func TestDeletion_Delete_NotFound(t *testing.T) {
	f := newDeletionFixture()

	err := f.service.Delete(context.Background(), "owner-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletion_Delete_Forbidden(t *testing.T) {
	f := newDeletionFixture()
	f.seedItem(t, "item-1", "owner-1", nil, "item-1")

	err := f.service.Delete(context.Background(), "owner-2", "item-1")
	assert.ErrorIs(t, err, ErrForbidden)

	_, getErr := f.items.Get(context.Background(), "item-1")
	assert.NoError(t, getErr, "foreign delete must not remove the item")
	assert.Empty(t, f.index.deleted)
}

func TestDeletion_Delete_SweepFailureAborts(t *testing.T) {
	f := newDeletionFixture()
	f.items.refSweepErr = errors.New("reference check failed")
	f.seedItem(t, "item-1", "owner-1", []string{"tag-1"}, "item-1")

	err := f.service.Delete(context.Background(), "owner-1", "item-1")
	require.Error(t, err)

	_, getErr := f.items.Get(context.Background(), "item-1")
	assert.NoError(t, getErr, "document survives when the sweep fails")
}

func TestDeletion_Delete_Closed(t *testing.T) {
	f := newDeletionFixture()
	f.closed.Store(true)

	assert.ErrorIs(t, f.service.Delete(context.Background(), "owner-1", "item-1"), ErrClientClosed)
}
