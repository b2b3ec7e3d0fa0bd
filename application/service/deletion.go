package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/curatehq/curate/domain/item"
	"github.com/curatehq/curate/domain/search"
	"github.com/curatehq/curate/domain/tag"
	"github.com/curatehq/curate/internal/database"
	"golang.org/x/sync/errgroup"
)

// Deletion coordinates removing an item from both stores and garbage
// collecting tags that nothing else references.
type Deletion struct {
	items  item.Store
	tags   tag.Store
	index  search.VectorIndex
	closed *atomic.Bool
	logger *slog.Logger
}

// NewDeletion creates a Deletion coordinator.
func NewDeletion(items item.Store, tags tag.Store, index search.VectorIndex, closed *atomic.Bool, logger *slog.Logger) Deletion {
	if logger == nil {
		logger = slog.Default()
	}
	return Deletion{items: items, tags: tags, index: index, closed: closed, logger: logger}
}

// Delete removes an item. The vector is removed before the document so no
// document ever claims a vector that is already gone; the reverse (an
// orphaned vector) is tolerated because retrieval's document-store join
// simply never finds it.
func (s Deletion) Delete(ctx context.Context, ownerID, itemID string) error {
	if s.closed.Load() {
		return ErrClientClosed
	}

	it, err := s.items.Get(ctx, itemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w: item %s", ErrNotFound, itemID)
		}
		return fmt.Errorf("load item: %w", err)
	}
	if it.OwnerID() != ownerID {
		return fmt.Errorf("%w: item %s", ErrForbidden, itemID)
	}

	if it.HasVector() {
		if err := s.index.Delete(ctx, it.VectorRef()); err != nil {
			s.logger.Warn("vector delete failed, leaving orphaned vector",
				"item_id", itemID, "vector_ref", it.VectorRef(), "error", err)
		}
	}

	if err := s.sweepUnusedTags(ctx, it.TagIDs(), itemID); err != nil {
		return err
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// sweepUnusedTags deletes each tag that no item other than excludingItemID
// still references. Tags are independent, so the checks run concurrently.
// Already-deleted tags are a no-op.
func (s Deletion) sweepUnusedTags(ctx context.Context, tagIDs []string, excludingItemID string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, tagID := range tagIDs {
		g.Go(func() error {
			referenced, err := s.items.TagReferencedByOther(gctx, tagID, excludingItemID)
			if err != nil {
				return fmt.Errorf("check tag %s references: %w", tagID, err)
			}
			if referenced {
				return nil
			}
			if err := s.tags.Delete(gctx, tagID); err != nil {
				return fmt.Errorf("delete unused tag %s: %w", tagID, err)
			}
			return nil
		})
	}
	return g.Wait()
}
