package curate

import (
	"log/slog"
	"net/http"

	"github.com/curatehq/curate/application/service"
	"github.com/curatehq/curate/infrastructure/provider"
	"github.com/curatehq/curate/internal/config"
)

// databaseType identifies the configured database.
type databaseType int

const (
	databaseUnset databaseType = iota
	databaseSQLite
	databasePostgres
)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	database       databaseType
	dbPath         string
	dbDSN          string
	dataDir        string
	modelDir       string
	embedder       provider.Embedder
	source         service.MediaSource
	youtubeAPIKey  string
	youtubeBaseURL string
	logger         *slog.Logger
}

func newClientConfig() *clientConfig {
	return &clientConfig{
		dataDir: config.DefaultDataDir(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database. An empty path places the
// database file under the data directory.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.database = databaseSQLite
		c.dbPath = path
	}
}

// WithPostgres configures PostgreSQL with the pgvector extension.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.database = databasePostgres
		c.dbDSN = dsn
	}
}

// WithOpenAI sets OpenAI as the embedding provider.
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) {
		c.embedder = provider.NewOpenAIEmbedder(provider.OpenAIConfig{APIKey: apiKey})
	}
}

// WithOpenAIConfig sets an OpenAI-compatible embedding provider with custom
// configuration (base URL, model, retry budget, transport).
func WithOpenAIConfig(cfg provider.OpenAIConfig) Option {
	return func(c *clientConfig) {
		c.embedder = provider.NewOpenAIEmbedder(cfg)
	}
}

// WithCachedOpenAIConfig is WithOpenAIConfig with responses cached on disk
// under cacheDir. Intended for tests and development against a paid endpoint.
func WithCachedOpenAIConfig(cfg provider.OpenAIConfig, cacheDir string) Option {
	return func(c *clientConfig) {
		cfg.Transport = provider.NewCachingTransport(cacheDir, http.DefaultTransport)
		c.embedder = provider.NewOpenAIEmbedder(cfg)
	}
}

// WithEmbedder sets a custom embedding provider.
func WithEmbedder(e provider.Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithMediaSource sets a custom metadata source, replacing the default
// YouTube client.
func WithMediaSource(s service.MediaSource) Option {
	return func(c *clientConfig) {
		c.source = s
	}
}

// WithYouTubeAPIKey sets the YouTube Data API key for metadata lookups.
func WithYouTubeAPIKey(key string) Option {
	return func(c *clientConfig) {
		c.youtubeAPIKey = key
	}
}

// WithYouTubeBaseURL overrides the YouTube API base URL. Used in tests.
func WithYouTubeBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		c.youtubeBaseURL = baseURL
	}
}

// WithDataDir sets the data directory for database and model storage.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		if dir != "" {
			c.dataDir = dir
		}
	}
}

// WithModelDir sets the directory holding local embedding model files.
// If not specified, defaults to {dataDir}/models.
func WithModelDir(dir string) Option {
	return func(c *clientConfig) {
		c.modelDir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
