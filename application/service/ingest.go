package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/curatehq/curate/domain/item"
	"github.com/curatehq/curate/domain/search"
	"github.com/google/uuid"
)

// MediaSource resolves links to source identifiers and fetches external
// metadata for them.
type MediaSource interface {
	// Resolve extracts the source identifier from a link, or fails if the
	// link does not match the source's format.
	Resolve(link string) (string, error)

	// Lookup fetches metadata for a resolved identifier. The second return
	// value is false, with no error, when the source affirmatively has no
	// such video.
	Lookup(ctx context.Context, sourceID string) (item.Metadata, bool, error)
}

// AddResult is the outcome of an add. VectorSynced is false when the item
// was persisted but the similarity index write failed; the item remains
// listable and can be re-indexed later.
type AddResult struct {
	item         item.Item
	vectorSynced bool
}

// Item returns the persisted item.
func (r AddResult) Item() item.Item { return r.item }

// VectorSynced reports whether the similarity index accepted the item's
// embedding.
func (r AddResult) VectorSynced() bool { return r.vectorSynced }

// Ingestion coordinates adding an item across both stores.
type Ingestion struct {
	items    item.Store
	registry TagRegistry
	source   MediaSource
	embedder search.Embedder
	index    search.VectorIndex
	closed   *atomic.Bool
	logger   *slog.Logger
}

// NewIngestion creates an Ingestion coordinator.
func NewIngestion(
	items item.Store,
	registry TagRegistry,
	source MediaSource,
	embedder search.Embedder,
	index search.VectorIndex,
	closed *atomic.Bool,
	logger *slog.Logger,
) Ingestion {
	if logger == nil {
		logger = slog.Default()
	}
	return Ingestion{
		items:    items,
		registry: registry,
		source:   source,
		embedder: embedder,
		index:    index,
		closed:   closed,
		logger:   logger,
	}
}

// Add saves a link. The document is created before the vector so a failed
// embedding or upsert never leaves a vector referencing a nonexistent
// document; the reverse failure (item without vector) is recoverable and
// reported through AddResult.VectorSynced.
func (s Ingestion) Add(ctx context.Context, ownerID, link, kind, title string, tagTitles []string) (AddResult, error) {
	if s.closed.Load() {
		return AddResult{}, ErrClientClosed
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return AddResult{}, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}

	parsedKind, err := item.ParseKind(kind)
	if err != nil {
		return AddResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	sourceID, err := s.source.Resolve(link)
	if err != nil {
		return AddResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	tags, err := s.registry.Resolve(ctx, tagTitles)
	if err != nil {
		return AddResult{}, err
	}
	tagIDs := make([]string, len(tags))
	for i, t := range tags {
		tagIDs[i] = t.ID()
	}

	// Metadata is best-effort for transient upstream failures, but a source
	// that affirmatively has no such video rejects the add.
	meta, hasMeta, err := s.lookupMetadata(ctx, sourceID)
	if err != nil {
		return AddResult{}, err
	}

	vector, err := s.embed(ctx, embeddingInput(title, meta, hasMeta))
	if err != nil {
		return AddResult{}, err
	}

	saved := item.New(uuid.NewString(), ownerID, link, parsedKind, title, tagIDs)
	if hasMeta {
		saved = saved.WithMetadata(meta)
	}
	if err := s.items.Create(ctx, saved); err != nil {
		return AddResult{}, fmt.Errorf("persist item: %w", err)
	}

	// From here on the item is committed; index failures degrade to a
	// partial result instead of rolling back user data.
	entry := search.NewEntry(saved.ID(), vector, search.NewEntryMetadata(ownerID, link, string(parsedKind), title))
	if err := s.index.Upsert(ctx, entry); err != nil {
		s.logger.Warn("vector upsert failed, item is listable but not searchable",
			"item_id", saved.ID(), "error", err)
		return AddResult{item: saved, vectorSynced: false}, nil
	}

	if err := s.items.SetVectorRef(ctx, saved.ID(), saved.ID()); err != nil {
		s.logger.Warn("vector ref backfill failed, item is listable but not searchable",
			"item_id", saved.ID(), "error", err)
		return AddResult{item: saved, vectorSynced: false}, nil
	}

	return AddResult{item: saved.WithVectorRef(saved.ID()), vectorSynced: true}, nil
}

func (s Ingestion) lookupMetadata(ctx context.Context, sourceID string) (item.Metadata, bool, error) {
	meta, found, err := s.source.Lookup(ctx, sourceID)
	if err != nil {
		s.logger.Warn("metadata lookup failed, saving without fetched fields",
			"source_id", sourceID, "error", err)
		return item.Metadata{}, false, nil
	}
	if !found {
		return item.Metadata{}, false, fmt.Errorf("%w: %s", ErrSourceNotFound, sourceID)
	}
	return meta, true, nil
}

func (s Ingestion) embed(ctx context.Context, input string) ([]float64, error) {
	vectors, err := s.embedder.Embed(ctx, []string{input})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for 1 text", ErrEmbeddingUnavailable, len(vectors))
	}
	return vectors[0], nil
}

// embeddingInput concatenates the user title and fetched metadata,
// comma-joined in fixed order, skipping absent parts.
func embeddingInput(title string, meta item.Metadata, hasMeta bool) string {
	parts := []string{title}
	if hasMeta {
		if meta.Title() != "" {
			parts = append(parts, meta.Title())
		}
		if meta.Description() != "" {
			parts = append(parts, meta.Description())
		}
	}
	return strings.Join(parts, ", ")
}
