package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/curatehq/curate/domain/item"
	"github.com/curatehq/curate/domain/search"
	"github.com/curatehq/curate/internal/config"
)

// Retrieval coordinates semantic search: embed the query, match against the
// vector index, then hydrate matches from the document store scoped to the
// calling owner.
type Retrieval struct {
	items    item.Store
	embedder search.Embedder
	index    search.VectorIndex
	closed   *atomic.Bool
	logger   *slog.Logger
}

// NewRetrieval creates a Retrieval coordinator.
func NewRetrieval(items item.Store, embedder search.Embedder, index search.VectorIndex, closed *atomic.Bool, logger *slog.Logger) Retrieval {
	if logger == nil {
		logger = slog.Default()
	}
	return Retrieval{items: items, embedder: embedder, index: index, closed: closed, logger: logger}
}

// Search returns the owner's items most similar to the query, best match
// first. Matches below the similarity floor are dropped; an empty result is
// not an error. Matches whose vector has no surviving document, or whose
// document belongs to another owner, are silently dropped by the hydration
// join.
func (s Retrieval) Search(ctx context.Context, ownerID, query string) ([]item.Item, error) {
	if s.closed.Load() {
		return nil, ErrClientClosed
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrInvalidInput)
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for 1 text", ErrEmbeddingUnavailable, len(vectors))
	}

	matches, err := s.index.Query(ctx, vectors[0], config.DefaultSearchTopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	scores := make(map[string]float64, len(matches))
	refs := make([]string, 0, len(matches))
	for _, match := range matches {
		if match.Score() < config.DefaultSearchMinScore {
			continue
		}
		scores[match.ID()] = match.Score()
		refs = append(refs, match.ID())
	}
	if len(refs) == 0 {
		return []item.Item{}, nil
	}

	items, err := s.items.ByVectorRefs(ctx, refs, ownerID)
	if err != nil {
		return nil, fmt.Errorf("hydrate matches: %w", err)
	}

	sort.Slice(items, func(i, j int) bool {
		return scores[items[i].VectorRef()] > scores[items[j].VectorRef()]
	})
	return items, nil
}
