package tag

import "context"

// Store defines persistence operations for tags.
//
// Create relies on a store-level uniqueness constraint on the title; a
// concurrent duplicate surfaces as database.ErrConflict so callers can
// retry-read the winning record.
type Store interface {
	// ByID returns a tag by identifier.
	ByID(ctx context.Context, id string) (Tag, error)

	// ByIDs returns the tags matching the given identifiers. Unknown
	// identifiers are skipped.
	ByIDs(ctx context.Context, ids []string) ([]Tag, error)

	// ByTitle returns a tag by exact title.
	ByTitle(ctx context.Context, title string) (Tag, error)

	// Create persists a new tag.
	Create(ctx context.Context, t Tag) error

	// Delete removes a tag. Deleting a nonexistent tag is a no-op.
	Delete(ctx context.Context, id string) error
}
