package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/curatehq/curate/domain/item"
	"github.com/curatehq/curate/domain/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type libraryFixture struct {
	items   *fakeItemStore
	tags    *fakeTagStore
	closed  *atomic.Bool
	service Library
}

func newLibraryFixture() *libraryFixture {
	tags := newFakeTagStore()
	f := &libraryFixture{
		items:  newFakeItemStore(tags),
		tags:   tags,
		closed: &atomic.Bool{},
	}
	f.service = NewLibrary(f.items, f.closed, nil)
	return f
}

func (f *libraryFixture) seedItems(t *testing.T, ownerID string, count int, tagIDs []string) {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		it := item.Reconstruct(
			fmt.Sprintf("%s-item-%02d", ownerID, i), ownerID, "https://youtu.be/abc12345678", item.KindVideo,
			fmt.Sprintf("title %d", i), item.Metadata{}, false, tagIDs, "",
			base.Add(time.Duration(i)*time.Minute), base.Add(time.Duration(i)*time.Minute),
		)
		require.NoError(t, f.items.Create(context.Background(), it))
	}
}

func TestLibrary_ListItems_Paginates(t *testing.T) {
	f := newLibraryFixture()
	f.seedItems(t, "owner-1", 5, nil)

	page, err := f.service.ListItems(context.Background(), "owner-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total())
	require.Len(t, page.Items(), 2)
	assert.Equal(t, "owner-1-item-04", page.Items()[0].ID(), "newest first")
	assert.Equal(t, "owner-1-item-03", page.Items()[1].ID())

	last, err := f.service.ListItems(context.Background(), "owner-1", 3, 2)
	require.NoError(t, err)
	require.Len(t, last.Items(), 1)
	assert.Equal(t, "owner-1-item-00", last.Items()[0].ID())
}

func TestLibrary_ListItems_ClampsPageRequest(t *testing.T) {
	f := newLibraryFixture()
	f.seedItems(t, "owner-1", 12, nil)

	page, err := f.service.ListItems(context.Background(), "owner-1", 0, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page().Number())
	assert.Equal(t, item.MaxPageSize, page.Page().Size())
	assert.Len(t, page.Items(), item.MaxPageSize)
}

func TestLibrary_ListItems_PageBeyondEnd(t *testing.T) {
	f := newLibraryFixture()
	f.seedItems(t, "owner-1", 3, nil)

	page, err := f.service.ListItems(context.Background(), "owner-1", 9, 8)
	require.NoError(t, err)
	assert.Empty(t, page.Items())
	assert.Equal(t, int64(3), page.Total())
}

func TestLibrary_GetItem(t *testing.T) {
	f := newLibraryFixture()
	f.seedItems(t, "owner-1", 1, nil)

	it, err := f.service.GetItem(context.Background(), "owner-1", "owner-1-item-00")
	require.NoError(t, err)
	assert.Equal(t, "owner-1-item-00", it.ID())

	_, err = f.service.GetItem(context.Background(), "owner-2", "owner-1-item-00")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.service.GetItem(context.Background(), "owner-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLibrary_ListTags(t *testing.T) {
	f := newLibraryFixture()
	f.tags.mustAdd(tag.New("tag-1", "go"))
	f.tags.mustAdd(tag.New("tag-2", "music"))
	f.seedItems(t, "owner-1", 2, []string{"tag-1", "tag-2"})

	tags, err := f.service.ListTags(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, tags, 2, "tags shared across items appear once")
	assert.Equal(t, "go", tags[0].Title())
	assert.Equal(t, "music", tags[1].Title())

	empty, err := f.service.ListTags(context.Background(), "owner-2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLibrary_ListItemsByTag(t *testing.T) {
	f := newLibraryFixture()
	f.tags.mustAdd(tag.New("tag-1", "go"))
	f.seedItems(t, "owner-1", 2, []string{"tag-1"})
	f.seedItems(t, "owner-2", 1, []string{"tag-1"})

	items, err := f.service.ListItemsByTag(context.Background(), "owner-1", "tag-1")
	require.NoError(t, err)
	assert.Len(t, items, 2, "other owners' items excluded")

	none, err := f.service.ListItemsByTag(context.Background(), "owner-1", "unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLibrary_Closed(t *testing.T) {
	f := newLibraryFixture()
	f.closed.Store(true)

	_, err := f.service.ListItems(context.Background(), "owner-1", 1, 8)
	assert.ErrorIs(t, err, ErrClientClosed)
	_, err = f.service.ListTags(context.Background(), "owner-1")
	assert.ErrorIs(t, err, ErrClientClosed)
}
