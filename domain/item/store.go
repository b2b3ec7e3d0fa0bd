package item

import (
	"context"

	"github.com/curatehq/curate/domain/tag"
)

// Pagination clamp bounds for owner listings. The maximum page size is
// platform-fixed.
const (
	MinPageSize = 1
	MaxPageSize = 8
)

// Page describes a clamped page request (page >= 1, 1 <= size <= MaxPageSize).
type Page struct {
	number int
	size   int
}

// NewPage creates a Page, clamping out-of-range values.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < MinPageSize {
		size = MinPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{number: number, size: size}
}

// Number returns the 1-indexed page number.
func (p Page) Number() int { return p.number }

// Size returns the page size.
func (p Page) Size() int { return p.size }

// Offset returns the row offset for store queries.
func (p Page) Offset() int { return (p.number - 1) * p.size }

// Store defines persistence operations for items.
type Store interface {
	// Create persists a new item.
	Create(ctx context.Context, it Item) error

	// Get returns an item by identifier (unscoped).
	Get(ctx context.Context, id string) (Item, error)

	// ByOwner returns one page of the owner's items, most recently created
	// first, plus the total item count for the owner.
	ByOwner(ctx context.Context, ownerID string, page Page) ([]Item, int64, error)

	// AllByOwner returns every item the owner has, most recently created first.
	AllByOwner(ctx context.Context, ownerID string) ([]Item, error)

	// ByTag returns the owner's items carrying the given tag.
	ByTag(ctx context.Context, ownerID, tagID string) ([]Item, error)

	// ByVectorRefs returns items whose vector reference is in refs AND whose
	// owner matches. Missing references are silently skipped.
	ByVectorRefs(ctx context.Context, refs []string, ownerID string) ([]Item, error)

	// SetVectorRef records the similarity-index reference on an item.
	SetVectorRef(ctx context.Context, itemID, vectorRef string) error

	// Delete removes an item and its tag associations.
	Delete(ctx context.Context, id string) error

	// TagReferencedByOther reports whether any item other than excludingItemID
	// still references the tag.
	TagReferencedByOther(ctx context.Context, tagID, excludingItemID string) (bool, error)

	// DistinctTagsForOwner returns the deduplicated set of tags used across
	// the owner's items.
	DistinctTagsForOwner(ctx context.Context, ownerID string) ([]tag.Tag, error)
}
