// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 8080
	DefaultLogLevel       = "INFO"
	DefaultLogFormat      = "pretty"
	DefaultSearchTopK     = 5
	DefaultSearchMinScore = 0.4
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultTimeout        = 60 * time.Second
	DefaultMaxRetries     = 5
	DefaultDataDirName    = ".curate"
)

// TokenIdentity maps an API token to an authenticated owner.
type TokenIdentity struct {
	token    string
	ownerID  string
	username string
}

// NewTokenIdentity creates a TokenIdentity.
func NewTokenIdentity(token, ownerID, username string) TokenIdentity {
	return TokenIdentity{token: token, ownerID: ownerID, username: username}
}

// Token returns the bearer token.
func (t TokenIdentity) Token() string { return t.token }

// OwnerID returns the owner identifier the token authenticates as.
func (t TokenIdentity) OwnerID() string { return t.ownerID }

// Username returns the owner's display name.
func (t TokenIdentity) Username() string { return t.username }

// EmbeddingConfig configures the remote embedding endpoint. When the API key
// is empty the server falls back to the built-in local model.
type EmbeddingConfig struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	maxRetries int
}

// BaseURL returns the endpoint base URL.
func (e EmbeddingConfig) BaseURL() string { return e.baseURL }

// APIKey returns the endpoint API key.
func (e EmbeddingConfig) APIKey() string { return e.apiKey }

// Model returns the embedding model identifier.
func (e EmbeddingConfig) Model() string { return e.model }

// Timeout returns the request timeout.
func (e EmbeddingConfig) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the retry budget.
func (e EmbeddingConfig) MaxRetries() int { return e.maxRetries }

// AppConfig holds the resolved application configuration.
type AppConfig struct {
	host           string
	port           int
	dataDir        string
	dbURL          string
	logLevel       string
	logFormat      string
	youtubeAPIKey  string
	youtubeBaseURL string
	embedding      EmbeddingConfig
	modelDir       string
	tokens         []TokenIdentity
	mcpOwner       string
}

// AppConfigOption mutates an AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost overrides the bind host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort overrides the bind port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// Apply returns a copy of the config with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Host returns the server bind host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server bind port.
func (c AppConfig) Port() int { return c.port }

// Addr returns "host:port".
func (c AppConfig) Addr() string { return fmt.Sprintf("%s:%d", c.host, c.port) }

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL (may be empty; the default is
// sqlite under the data directory).
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format (pretty or json).
func (c AppConfig) LogFormat() string { return c.logFormat }

// YouTubeAPIKey returns the YouTube Data API key.
func (c AppConfig) YouTubeAPIKey() string { return c.youtubeAPIKey }

// YouTubeBaseURL returns an override base URL for the YouTube API.
func (c AppConfig) YouTubeBaseURL() string { return c.youtubeBaseURL }

// Embedding returns the remote embedding endpoint configuration.
func (c AppConfig) Embedding() EmbeddingConfig { return c.embedding }

// ModelDir returns the local embedding model directory.
func (c AppConfig) ModelDir() string { return c.modelDir }

// Tokens returns the configured token identities.
func (c AppConfig) Tokens() []TokenIdentity {
	result := make([]TokenIdentity, len(c.tokens))
	copy(result, c.tokens)
	return result
}

// MCPOwner returns the owner identifier the MCP tool surface is bound to.
func (c AppConfig) MCPOwner() string { return c.mcpOwner }

// EnsureDataDir creates the data directory if it does not exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// DefaultDataDir returns ~/.curate, falling back to ./.curate when the home
// directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDirName
	}
	return filepath.Join(home, DefaultDataDirName)
}
