package persistence

import (
	"time"

	"github.com/curatehq/curate/domain/item"
	"github.com/curatehq/curate/domain/tag"
	"github.com/curatehq/curate/domain/user"
)

// ItemMapper maps between domain Item and persistence ItemModel.
type ItemMapper struct{}

// ToDomain converts an ItemModel to a domain Item.
func (m ItemMapper) ToDomain(e ItemModel) item.Item {
	tagIDs := make([]string, len(e.Tags))
	for i, t := range e.Tags {
		tagIDs[i] = t.ID
	}

	var meta item.Metadata
	hasMeta := e.FetchedTitle != nil
	if hasMeta {
		meta = item.NewMetadata(
			*e.FetchedTitle,
			derefString(e.FetchedDescription),
			derefString(e.ThumbnailURL),
		)
	}

	return item.Reconstruct(
		e.ID,
		e.OwnerID,
		e.Link,
		item.Kind(e.Kind),
		e.Title,
		meta,
		hasMeta,
		tagIDs,
		derefString(e.VectorRef),
		e.CreatedAt,
		e.UpdatedAt,
	)
}

// ToModel converts a domain Item to an ItemModel. Tag associations carry
// only identifiers; callers writing the model must omit tag columns so the
// tags table is never touched through the association.
func (m ItemMapper) ToModel(it item.Item) ItemModel {
	tagIDs := it.TagIDs()
	tags := make([]TagModel, len(tagIDs))
	for i, id := range tagIDs {
		tags[i] = TagModel{ID: id}
	}

	model := ItemModel{
		ID:        it.ID(),
		OwnerID:   it.OwnerID(),
		Link:      it.Link(),
		Kind:      string(it.Kind()),
		Title:     it.Title(),
		Tags:      tags,
		CreatedAt: it.CreatedAt(),
		UpdatedAt: it.UpdatedAt(),
	}

	if meta, ok := it.Metadata(); ok {
		title := meta.Title()
		model.FetchedTitle = &title
		if meta.Description() != "" {
			desc := meta.Description()
			model.FetchedDescription = &desc
		}
		if meta.ThumbnailURL() != "" {
			thumb := meta.ThumbnailURL()
			model.ThumbnailURL = &thumb
		}
	}

	if it.HasVector() {
		ref := it.VectorRef()
		model.VectorRef = &ref
	}

	return model
}

// TagMapper maps between domain Tag and persistence TagModel.
type TagMapper struct{}

// ToDomain converts a TagModel to a domain Tag.
func (m TagMapper) ToDomain(e TagModel) tag.Tag {
	return tag.New(e.ID, e.Title)
}

// ToModel converts a domain Tag to a TagModel.
func (m TagMapper) ToModel(t tag.Tag) TagModel {
	return TagModel{
		ID:        t.ID(),
		Title:     t.Title(),
		CreatedAt: time.Now(),
	}
}

// UserMapper maps between domain User and persistence UserModel.
type UserMapper struct{}

// ToDomain converts a UserModel to a domain User.
func (m UserMapper) ToDomain(e UserModel) user.User {
	return user.New(e.ID, e.Username, e.Shared)
}

// ToModel converts a domain User to a UserModel.
func (m UserMapper) ToModel(u user.User) UserModel {
	now := time.Now()
	return UserModel{
		ID:        u.ID(),
		Username:  u.Username(),
		Shared:    u.Shared(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
