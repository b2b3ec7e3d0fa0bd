// Package item provides the saved-media domain types.
package item

import (
	"fmt"
	"sort"
	"time"
)

// Kind classifies the media a saved link points at.
type Kind string

// Kind values.
const (
	KindImage   Kind = "image"
	KindVideo   Kind = "video"
	KindArticle Kind = "article"
	KindAudio   Kind = "audio"
)

// ParseKind validates a content kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindImage, KindVideo, KindArticle, KindAudio:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// Metadata holds externally fetched source metadata. It is absent on an Item
// until a metadata lookup has succeeded.
type Metadata struct {
	title        string
	description  string
	thumbnailURL string
}

// NewMetadata creates a Metadata value.
func NewMetadata(title, description, thumbnailURL string) Metadata {
	return Metadata{
		title:        title,
		description:  description,
		thumbnailURL: thumbnailURL,
	}
}

// Title returns the source-provided title.
func (m Metadata) Title() string { return m.title }

// Description returns the source-provided description.
func (m Metadata) Description() string { return m.description }

// ThumbnailURL returns the source-provided thumbnail URL.
func (m Metadata) ThumbnailURL() string { return m.thumbnailURL }

// Item represents a saved reference to external media.
//
// The vector reference links the item to its embedding in the similarity
// index. It is empty between item creation and the vector upsert, and on
// items whose indexing failed; those remain listable but not searchable.
type Item struct {
	id        string
	ownerID   string
	link      string
	kind      Kind
	title     string
	meta      Metadata
	hasMeta   bool
	tagIDs    []string
	vectorRef string
	createdAt time.Time
	updatedAt time.Time
}

// New creates an Item without a vector reference. Callers assign the
// identifier; the coordinators use UUID strings.
func New(id, ownerID, link string, kind Kind, title string, tagIDs []string) Item {
	now := time.Now()
	return Item{
		id:        id,
		ownerID:   ownerID,
		link:      link,
		kind:      kind,
		title:     title,
		tagIDs:    dedupe(tagIDs),
		createdAt: now,
		updatedAt: now,
	}
}

// Reconstruct rebuilds an Item from persistence.
func Reconstruct(
	id, ownerID, link string,
	kind Kind,
	title string,
	meta Metadata,
	hasMeta bool,
	tagIDs []string,
	vectorRef string,
	createdAt, updatedAt time.Time,
) Item {
	return Item{
		id:        id,
		ownerID:   ownerID,
		link:      link,
		kind:      kind,
		title:     title,
		meta:      meta,
		hasMeta:   hasMeta,
		tagIDs:    dedupe(tagIDs),
		vectorRef: vectorRef,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the store-assigned identifier.
func (i Item) ID() string { return i.id }

// OwnerID returns the identifier of the owning user.
func (i Item) OwnerID() string { return i.ownerID }

// Link returns the source link.
func (i Item) Link() string { return i.link }

// Kind returns the content kind.
func (i Item) Kind() Kind { return i.kind }

// Title returns the user-supplied title.
func (i Item) Title() string { return i.title }

// Metadata returns the fetched source metadata and whether it is present.
func (i Item) Metadata() (Metadata, bool) { return i.meta, i.hasMeta }

// TagIDs returns the identifiers of the item's tags (copy, no duplicates).
func (i Item) TagIDs() []string {
	result := make([]string, len(i.tagIDs))
	copy(result, i.tagIDs)
	return result
}

// VectorRef returns the similarity-index reference, or empty if the item has
// no vector.
func (i Item) VectorRef() string { return i.vectorRef }

// HasVector reports whether a vector reference is set.
func (i Item) HasVector() bool { return i.vectorRef != "" }

// CreatedAt returns the creation timestamp.
func (i Item) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt returns the last update timestamp.
func (i Item) UpdatedAt() time.Time { return i.updatedAt }

// WithMetadata returns a copy of the item carrying fetched metadata.
func (i Item) WithMetadata(meta Metadata) Item {
	i.meta = meta
	i.hasMeta = true
	return i
}

// WithVectorRef returns a copy of the item with the vector reference set.
func (i Item) WithVectorRef(ref string) Item {
	i.vectorRef = ref
	i.updatedAt = time.Now()
	return i
}

// dedupe returns a sorted copy of ids with duplicates removed. Tag sets are
// order-irrelevant, so a canonical order keeps comparisons cheap.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}
