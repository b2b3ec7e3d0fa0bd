package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/curatehq/curate/domain/item"
	"github.com/curatehq/curate/domain/tag"
	"github.com/curatehq/curate/internal/database"
)

// ItemPage is one page of an owner's items plus the owner's total count.
type ItemPage struct {
	items []item.Item
	total int64
	page  item.Page
}

// Items returns the items on this page, most recently created first.
func (p ItemPage) Items() []item.Item { return p.items }

// Total returns the owner's total item count across all pages.
func (p ItemPage) Total() int64 { return p.total }

// Page returns the clamped page request that produced this page.
func (p ItemPage) Page() item.Page { return p.page }

// Library coordinates read-side browsing of an owner's collection.
type Library struct {
	items  item.Store
	closed *atomic.Bool
	logger *slog.Logger
}

// NewLibrary creates a Library coordinator.
func NewLibrary(items item.Store, closed *atomic.Bool, logger *slog.Logger) Library {
	if logger == nil {
		logger = slog.Default()
	}
	return Library{items: items, closed: closed, logger: logger}
}

// ListItems returns one page of the owner's items. Out-of-range page numbers
// and sizes are clamped, not rejected.
func (s Library) ListItems(ctx context.Context, ownerID string, pageNumber, pageSize int) (ItemPage, error) {
	if s.closed.Load() {
		return ItemPage{}, ErrClientClosed
	}

	page := item.NewPage(pageNumber, pageSize)
	items, total, err := s.items.ByOwner(ctx, ownerID, page)
	if err != nil {
		return ItemPage{}, fmt.Errorf("list items: %w", err)
	}
	return ItemPage{items: items, total: total, page: page}, nil
}

// GetItem returns a single item, enforcing ownership.
func (s Library) GetItem(ctx context.Context, ownerID, itemID string) (item.Item, error) {
	if s.closed.Load() {
		return item.Item{}, ErrClientClosed
	}

	found, err := s.items.Get(ctx, itemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return item.Item{}, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
		}
		return item.Item{}, fmt.Errorf("get item: %w", err)
	}
	if found.OwnerID() != ownerID {
		return item.Item{}, fmt.Errorf("%w: item %s", ErrForbidden, itemID)
	}
	return found, nil
}

// ListTags returns the deduplicated set of tags used across the owner's
// items, ordered by title.
func (s Library) ListTags(ctx context.Context, ownerID string) ([]tag.Tag, error) {
	if s.closed.Load() {
		return nil, ErrClientClosed
	}

	tags, err := s.items.DistinctTagsForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// ListItemsByTag returns the owner's items carrying the given tag. An unknown
// tag yields an empty result, not an error.
func (s Library) ListItemsByTag(ctx context.Context, ownerID, tagID string) ([]item.Item, error) {
	if s.closed.Load() {
		return nil, ErrClientClosed
	}

	items, err := s.items.ByTag(ctx, ownerID, tagID)
	if err != nil {
		return nil, fmt.Errorf("list items by tag: %w", err)
	}
	return items, nil
}
