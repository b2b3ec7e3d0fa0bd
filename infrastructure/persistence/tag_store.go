package persistence

import (
	"context"
	"fmt"

	"github.com/curatehq/curate/domain/tag"
	"github.com/curatehq/curate/internal/database"
)

// TagStore implements tag.Store using GORM.
type TagStore struct {
	database.Repository[tag.Tag, TagModel]
}

// NewTagStore creates a new TagStore.
func NewTagStore(db database.Database) TagStore {
	return TagStore{
		Repository: database.NewRepository[tag.Tag, TagModel](db, TagMapper{}, "tag"),
	}
}

var _ tag.Store = TagStore{}

// ByID returns a tag by identifier.
func (s TagStore) ByID(ctx context.Context, id string) (tag.Tag, error) {
	return s.FindOne(ctx, database.NewQuery().Equal("id", id))
}

// ByIDs returns the tags matching the given identifiers. Unknown identifiers
// are skipped.
func (s TagStore) ByIDs(ctx context.Context, ids []string) ([]tag.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.Find(ctx, database.NewQuery().In("id", ids).OrderAsc("title"))
}

// ByTitle returns a tag by exact title.
func (s TagStore) ByTitle(ctx context.Context, title string) (tag.Tag, error) {
	return s.FindOne(ctx, database.NewQuery().Equal("title", title))
}

// Create persists a new tag. A concurrent create of the same title loses on
// the title uniqueness constraint and surfaces as database.ErrConflict.
func (s TagStore) Create(ctx context.Context, t tag.Tag) error {
	model := s.Mapper().ToModel(t)
	result := s.DB(ctx).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("create tag: %w", database.TranslateError(result.Error, "tag"))
	}
	return nil
}

// Delete removes a tag. Deleting a nonexistent tag is a no-op.
func (s TagStore) Delete(ctx context.Context, id string) error {
	return s.DeleteBy(ctx, database.NewQuery().Equal("id", id))
}
