package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/curatehq/curate/domain/item"
	"github.com/curatehq/curate/domain/tag"
	"github.com/curatehq/curate/domain/user"
	"github.com/curatehq/curate/internal/database"
)

// SharedItem is the public projection of an item. It carries tag titles
// instead of internal identifiers and omits the owner and vector reference.
type SharedItem struct {
	link         string
	kind         item.Kind
	title        string
	fetchedTitle string
	description  string
	thumbnailURL string
	tagTitles    []string
}

// Link returns the saved media link.
func (i SharedItem) Link() string { return i.link }

// Kind returns the media kind.
func (i SharedItem) Kind() item.Kind { return i.kind }

// Title returns the owner-assigned title.
func (i SharedItem) Title() string { return i.title }

// FetchedTitle returns the source-fetched title, empty when no metadata was
// collected.
func (i SharedItem) FetchedTitle() string { return i.fetchedTitle }

// Description returns the source-fetched description.
func (i SharedItem) Description() string { return i.description }

// ThumbnailURL returns the source-fetched thumbnail URL.
func (i SharedItem) ThumbnailURL() string { return i.thumbnailURL }

// TagTitles returns the item's tag titles.
func (i SharedItem) TagTitles() []string {
	out := make([]string, len(i.tagTitles))
	copy(out, i.tagTitles)
	return out
}

// SharedView is the public snapshot of an owner's collection.
type SharedView struct {
	username string
	items    []SharedItem
}

// Username returns the owner's display name.
func (v SharedView) Username() string { return v.username }

// Items returns the owner's items, most recently created first.
func (v SharedView) Items() []SharedItem { return v.items }

// Sharing coordinates the public visibility flag and the shared read view.
type Sharing struct {
	users  user.Store
	items  item.Store
	tags   tag.Store
	closed *atomic.Bool
	logger *slog.Logger
}

// NewSharing creates a Sharing coordinator.
func NewSharing(users user.Store, items item.Store, tags tag.Store, closed *atomic.Bool, logger *slog.Logger) Sharing {
	if logger == nil {
		logger = slog.Default()
	}
	return Sharing{users: users, items: items, tags: tags, closed: closed, logger: logger}
}

// SetShared toggles public visibility for an owner.
func (s Sharing) SetShared(ctx context.Context, ownerID string, shared bool) error {
	if s.closed.Load() {
		return ErrClientClosed
	}

	if err := s.users.SetShared(ctx, ownerID, shared); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w: owner %s", ErrNotFound, ownerID)
		}
		return fmt.Errorf("set shared: %w", err)
	}
	return nil
}

// SharedView returns the public view of an owner's collection. An owner that
// does not exist and an owner that has not enabled sharing both yield
// ErrNotFound, so callers cannot probe for account existence.
func (s Sharing) SharedView(ctx context.Context, ownerID string) (SharedView, error) {
	if s.closed.Load() {
		return SharedView{}, ErrClientClosed
	}

	owner, err := s.users.ByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return SharedView{}, fmt.Errorf("%w: shared view %s", ErrNotFound, ownerID)
		}
		return SharedView{}, fmt.Errorf("load owner: %w", err)
	}
	if !owner.Shared() {
		return SharedView{}, fmt.Errorf("%w: shared view %s", ErrNotFound, ownerID)
	}

	items, err := s.items.AllByOwner(ctx, ownerID)
	if err != nil {
		return SharedView{}, fmt.Errorf("load items: %w", err)
	}

	titles, err := s.tagTitles(ctx, items)
	if err != nil {
		return SharedView{}, err
	}

	projected := make([]SharedItem, 0, len(items))
	for _, it := range items {
		projected = append(projected, projectSharedItem(it, titles))
	}
	return SharedView{username: owner.Username(), items: projected}, nil
}

// tagTitles resolves every tag id referenced by the items to its title in
// one store round trip.
func (s Sharing) tagTitles(ctx context.Context, items []item.Item) (map[string]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, it := range items {
		for _, id := range it.TagIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	tags, err := s.tags.ByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	titles := make(map[string]string, len(tags))
	for _, t := range tags {
		titles[t.ID()] = t.Title()
	}
	return titles, nil
}

func projectSharedItem(it item.Item, titles map[string]string) SharedItem {
	projected := SharedItem{
		link:  it.Link(),
		kind:  it.Kind(),
		title: it.Title(),
	}
	if meta, ok := it.Metadata(); ok {
		projected.fetchedTitle = meta.Title()
		projected.description = meta.Description()
		projected.thumbnailURL = meta.ThumbnailURL()
	}
	for _, id := range it.TagIDs() {
		if title, ok := titles[id]; ok {
			projected.tagTitles = append(projected.tagTitles, title)
		}
	}
	return projected
}
