package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/curatehq/curate/domain/item"
	"github.com/curatehq/curate/domain/tag"
	"github.com/curatehq/curate/internal/database"
	"gorm.io/gorm"
)

// ItemStore implements item.Store using GORM.
type ItemStore struct {
	database.Repository[item.Item, ItemModel]
}

// NewItemStore creates a new ItemStore.
func NewItemStore(db database.Database) ItemStore {
	return ItemStore{
		Repository: database.NewRepository[item.Item, ItemModel](db, ItemMapper{}, "item"),
	}
}

var _ item.Store = ItemStore{}

// Create persists a new item and its tag associations. Tag rows themselves
// are never written through the association; only item_tags join rows are.
func (s ItemStore) Create(ctx context.Context, it item.Item) error {
	model := s.Mapper().ToModel(it)
	result := s.DB(ctx).Omit("Tags.*").Create(&model)
	if result.Error != nil {
		return fmt.Errorf("create item: %w", database.TranslateError(result.Error, "item"))
	}
	return nil
}

// Get returns an item by identifier.
func (s ItemStore) Get(ctx context.Context, id string) (item.Item, error) {
	var entity ItemModel
	result := s.DB(ctx).Preload("Tags").First(&entity, "id = ?", id)
	if result.Error != nil {
		return item.Item{}, database.TranslateError(result.Error, "item")
	}
	return s.Mapper().ToDomain(entity), nil
}

// ByOwner returns one page of the owner's items, most recently created first,
// plus the owner's total item count.
func (s ItemStore) ByOwner(ctx context.Context, ownerID string, page item.Page) ([]item.Item, int64, error) {
	total, err := s.Count(ctx, database.NewQuery().Equal("owner_id", ownerID))
	if err != nil {
		return nil, 0, err
	}

	var entities []ItemModel
	result := s.DB(ctx).
		Preload("Tags").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Limit(page.Size()).
		Offset(page.Offset()).
		Find(&entities)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("list items by owner: %w", result.Error)
	}

	return s.toDomain(entities), total, nil
}

// AllByOwner returns every item the owner has, most recently created first.
func (s ItemStore) AllByOwner(ctx context.Context, ownerID string) ([]item.Item, error) {
	var entities []ItemModel
	result := s.DB(ctx).
		Preload("Tags").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&entities)
	if result.Error != nil {
		return nil, fmt.Errorf("list all items by owner: %w", result.Error)
	}
	return s.toDomain(entities), nil
}

// ByTag returns the owner's items carrying the given tag.
func (s ItemStore) ByTag(ctx context.Context, ownerID, tagID string) ([]item.Item, error) {
	var entities []ItemModel
	result := s.DB(ctx).
		Preload("Tags").
		Joins("JOIN item_tags ON item_tags.item_id = items.id").
		Where("item_tags.tag_id = ? AND items.owner_id = ?", tagID, ownerID).
		Order("items.created_at DESC, items.id DESC").
		Find(&entities)
	if result.Error != nil {
		return nil, fmt.Errorf("list items by tag: %w", result.Error)
	}
	return s.toDomain(entities), nil
}

// ByVectorRefs returns items whose vector reference is in refs and whose
// owner matches. References with no matching row are skipped.
func (s ItemStore) ByVectorRefs(ctx context.Context, refs []string, ownerID string) ([]item.Item, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	var entities []ItemModel
	result := s.DB(ctx).
		Preload("Tags").
		Where("vector_ref IN ? AND owner_id = ?", refs, ownerID).
		Find(&entities)
	if result.Error != nil {
		return nil, fmt.Errorf("list items by vector refs: %w", result.Error)
	}
	return s.toDomain(entities), nil
}

// SetVectorRef records the similarity-index reference on an item.
func (s ItemStore) SetVectorRef(ctx context.Context, itemID, vectorRef string) error {
	result := s.DB(ctx).Model(&ItemModel{}).
		Where("id = ?", itemID).
		Updates(map[string]any{
			"vector_ref": vectorRef,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("set vector ref: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: item", database.ErrNotFound)
	}
	return nil
}

// Delete removes an item and its tag associations in one transaction.
func (s ItemStore) Delete(ctx context.Context, id string) error {
	return database.WithTransaction(ctx, s.Database(), func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM item_tags WHERE item_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete item tag associations: %w", err)
		}
		if err := tx.Delete(&ItemModel{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		return nil
	})
}

// TagReferencedByOther reports whether any item other than excludingItemID
// still references the tag.
func (s ItemStore) TagReferencedByOther(ctx context.Context, tagID, excludingItemID string) (bool, error) {
	var count int64
	result := s.DB(ctx).Table("item_tags").
		Where("tag_id = ? AND item_id != ?", tagID, excludingItemID).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("count tag references: %w", result.Error)
	}
	return count > 0, nil
}

// DistinctTagsForOwner returns the deduplicated set of tags used across the
// owner's items, ordered by title.
func (s ItemStore) DistinctTagsForOwner(ctx context.Context, ownerID string) ([]tag.Tag, error) {
	var entities []TagModel
	result := s.DB(ctx).Table("tags").
		Select("DISTINCT tags.*").
		Joins("JOIN item_tags ON item_tags.tag_id = tags.id").
		Joins("JOIN items ON items.id = item_tags.item_id").
		Where("items.owner_id = ?", ownerID).
		Order("tags.title ASC").
		Find(&entities)
	if result.Error != nil {
		return nil, fmt.Errorf("list distinct tags for owner: %w", result.Error)
	}

	mapper := TagMapper{}
	tags := make([]tag.Tag, len(entities))
	for i, entity := range entities {
		tags[i] = mapper.ToDomain(entity)
	}
	return tags, nil
}

func (s ItemStore) toDomain(entities []ItemModel) []item.Item {
	items := make([]item.Item, len(entities))
	for i, entity := range entities {
		items[i] = s.Mapper().ToDomain(entity)
	}
	return items
}
