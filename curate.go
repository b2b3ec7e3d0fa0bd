// Package curate provides a library for saving, tagging, and semantically
// searching media links.
//
// Items live in a relational document store; their embeddings live in a
// vector index keyed by the item identifier. The coordinators keep the two
// eventually consistent, always preferring a saved-but-unsearchable item
// over lost user data.
//
// Basic usage:
//
//	client, err := curate.New(
//	    curate.WithSQLite(".curate/curate.db"),
//	    curate.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	    curate.WithYouTubeAPIKey(os.Getenv("YOUTUBE_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.Ingestion.Add(ctx, ownerID,
//	    "https://youtu.be/dQw4w9WgXcQ", "video", "never gonna", []string{"classics"})
//
//	items, err := client.Retrieval.Search(ctx, ownerID, "80s music video")
package curate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/curatehq/curate/application/service"
	"github.com/curatehq/curate/domain/search"
	"github.com/curatehq/curate/domain/user"
	"github.com/curatehq/curate/infrastructure/persistence"
	"github.com/curatehq/curate/infrastructure/provider"
	infrasearch "github.com/curatehq/curate/infrastructure/search"
	"github.com/curatehq/curate/infrastructure/youtube"
	"github.com/curatehq/curate/internal/database"
)

// Construction errors.
var (
	// ErrNoDatabase indicates New was called without WithSQLite or WithPostgres.
	ErrNoDatabase = errors.New("curate: no database configured")

	// ErrNoEmbedder indicates no embedding backend could be set up.
	ErrNoEmbedder = errors.New("curate: no embedding provider available")
)

// Client is the main entry point for the curate library.
//
// Access operations via the coordinator fields:
//
//	client.Ingestion.Add(ctx, ...)
//	client.Library.ListItems(ctx, ...)
//	client.Retrieval.Search(ctx, ...)
type Client struct {
	Ingestion service.Ingestion
	Deletion  service.Deletion
	Library   service.Library
	Retrieval service.Retrieval
	Sharing   service.Sharing

	db       database.Database
	users    persistence.UserStore
	embedder provider.Embedder
	logger   *slog.Logger
	closed   atomic.Bool
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.database == databaseUnset {
		return nil, ErrNoDatabase
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare data dir: %w", err)
	}

	// Fall back to the built-in local model when no external embedding
	// provider is configured.
	embedder := cfg.embedder
	if embedder == nil {
		modelDir := cfg.modelDir
		if modelDir == "" {
			modelDir = filepath.Join(cfg.dataDir, "models")
		}
		hugotEmbedder := provider.NewHugotEmbedder(modelDir)
		if !hugotEmbedder.Available() {
			return nil, fmt.Errorf("%w: no model found in %s and no external provider configured", ErrNoEmbedder, modelDir)
		}
		embedder = hugotEmbedder
		logger.Info("built-in embedding provider enabled", "model_dir", modelDir)
	}

	ctx := context.Background()
	dbURL, err := buildDatabaseURL(cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDatabase(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	itemStore := persistence.NewItemStore(db)
	tagStore := persistence.NewTagStore(db)
	userStore := persistence.NewUserStore(db)

	index, err := buildVectorIndex(ctx, cfg, db, embedder, logger)
	if err != nil {
		errClose := db.Close()
		return nil, errors.Join(err, errClose)
	}

	source := cfg.source
	if source == nil {
		var ytOpts []youtube.Option
		if cfg.youtubeBaseURL != "" {
			ytOpts = append(ytOpts, youtube.WithBaseURL(cfg.youtubeBaseURL))
		}
		source = youtube.NewClient(cfg.youtubeAPIKey, ytOpts...)
	}

	client := &Client{
		db:       db,
		users:    userStore,
		embedder: embedder,
		logger:   logger,
	}

	textEmbedder := provider.NewTextEmbedder(embedder)
	registry := service.NewTagRegistry(tagStore, logger)
	client.Ingestion = service.NewIngestion(itemStore, registry, source, textEmbedder, index, &client.closed, logger)
	client.Deletion = service.NewDeletion(itemStore, tagStore, index, &client.closed, logger)
	client.Library = service.NewLibrary(itemStore, &client.closed, logger)
	client.Retrieval = service.NewRetrieval(itemStore, textEmbedder, index, &client.closed, logger)
	client.Sharing = service.NewSharing(userStore, itemStore, tagStore, &client.closed, logger)

	return client, nil
}

// EnsureOwner creates the owner record if it does not exist yet. Existing
// records keep their username and sharing flag.
func (c *Client) EnsureOwner(ctx context.Context, ownerID, username string) error {
	if c.closed.Load() {
		return service.ErrClientClosed
	}

	_, err := c.users.ByID(ctx, ownerID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("look up owner %s: %w", ownerID, err)
	}
	if err := c.users.Create(ctx, user.New(ownerID, username, false)); err != nil {
		return fmt.Errorf("create owner %s: %w", ownerID, err)
	}
	return nil
}

// Close releases all resources. Subsequent operations on the coordinators
// fail with service.ErrClientClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return service.ErrClientClosed
	}

	if err := c.embedder.Close(); err != nil {
		c.logger.Error("failed to close embedding provider", "error", err)
	}

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("curate client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

func buildDatabaseURL(cfg *clientConfig) (string, error) {
	switch cfg.database {
	case databaseSQLite:
		path := cfg.dbPath
		if path == "" {
			path = filepath.Join(cfg.dataDir, "curate.db")
		}
		return "sqlite:///" + path, nil
	case databasePostgres:
		if cfg.dbDSN == "" {
			return "", fmt.Errorf("curate: postgres requires a DSN")
		}
		return cfg.dbDSN, nil
	}
	return "", ErrNoDatabase
}

// buildVectorIndex picks the index implementation matching the database.
// Postgres needs the embedding dimension up front for its VECTOR(N) column;
// SQLite stores JSON and does not.
func buildVectorIndex(ctx context.Context, cfg *clientConfig, db database.Database, embedder provider.Embedder, logger *slog.Logger) (search.VectorIndex, error) {
	if db.IsSQLite() {
		index, err := infrasearch.NewSQLiteVectorIndex(ctx, db, logger)
		if err != nil {
			return nil, fmt.Errorf("vector index: %w", err)
		}
		return index, nil
	}

	resp, err := embedder.Embed(ctx, provider.NewEmbeddingRequest([]string{"dimension probe"}))
	if err != nil {
		return nil, fmt.Errorf("probe embedding dimension: %w", err)
	}
	embeddings := resp.Embeddings()
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, fmt.Errorf("%w: provider returned no dimension probe vector", ErrNoEmbedder)
	}

	index, err := infrasearch.NewPgvectorIndex(ctx, db, len(embeddings[0]), logger)
	if err != nil {
		return nil, fmt.Errorf("vector index: %w", err)
	}
	return index, nil
}
