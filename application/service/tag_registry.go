// Package service provides the coordinators that orchestrate domain operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/curatehq/curate/domain/tag"
	"github.com/curatehq/curate/internal/database"
	"github.com/google/uuid"
)

// TagRegistry resolves tag titles to persistent tags, creating missing ones.
type TagRegistry struct {
	tags   tag.Store
	logger *slog.Logger
}

// NewTagRegistry creates a TagRegistry.
func NewTagRegistry(tags tag.Store, logger *slog.Logger) TagRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return TagRegistry{tags: tags, logger: logger}
}

// Resolve returns one tag per input title, in input order, skipping blank
// titles and duplicates. Missing tags are created. A concurrent create of
// the same title loses on the store's uniqueness constraint; the loser
// re-reads the winning record once instead of failing the whole ingestion.
func (r TagRegistry) Resolve(ctx context.Context, titles []string) ([]tag.Tag, error) {
	resolved := make([]tag.Tag, 0, len(titles))
	seen := make(map[string]struct{}, len(titles))

	for _, raw := range titles {
		title := strings.TrimSpace(raw)
		if title == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}

		t, err := r.resolveOne(ctx, title)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, t)
	}

	return resolved, nil
}

func (r TagRegistry) resolveOne(ctx context.Context, title string) (tag.Tag, error) {
	existing, err := r.tags.ByTitle(ctx, title)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return tag.Tag{}, fmt.Errorf("look up tag %q: %w", title, err)
	}

	created := tag.New(uuid.NewString(), title)
	err = r.tags.Create(ctx, created)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, database.ErrConflict) {
		return tag.Tag{}, fmt.Errorf("create tag %q: %w", title, err)
	}

	// Lost the create race; the winning record must exist now.
	r.logger.Debug("tag create conflict, re-reading winner", "title", title)
	winner, err := r.tags.ByTitle(ctx, title)
	if err != nil {
		return tag.Tag{}, fmt.Errorf("re-read tag %q after conflict: %w", title, err)
	}
	return winner, nil
}
