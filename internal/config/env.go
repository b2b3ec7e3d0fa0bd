package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds environment-based configuration. Variables carry the
// CURATE_ prefix, e.g. CURATE_PORT, CURATE_EMBEDDING_API_KEY.
type EnvConfig struct {
	// Host is the server host to bind to.
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path. Default: ~/.curate
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Default: sqlite:///{data_dir}/curate.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level (DEBUG, INFO, WARN, ERROR).
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// ConfigFile is an optional YAML config file. Environment variables
	// override values read from the file.
	ConfigFile string `envconfig:"CONFIG_FILE"`

	// YouTubeAPIKey authenticates metadata lookups against the YouTube
	// Data API.
	YouTubeAPIKey string `envconfig:"YOUTUBE_API_KEY"`

	// YouTubeBaseURL overrides the YouTube API base URL (tests).
	YouTubeBaseURL string `envconfig:"YOUTUBE_BASE_URL"`

	// EmbeddingBaseURL is the OpenAI-compatible embedding endpoint.
	EmbeddingBaseURL string `envconfig:"EMBEDDING_BASE_URL"`

	// EmbeddingAPIKey authenticates the embedding endpoint. When empty the
	// built-in local model is used instead.
	EmbeddingAPIKey string `envconfig:"EMBEDDING_API_KEY"`

	// EmbeddingModel is the embedding model identifier.
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`

	// EmbeddingTimeoutSeconds is the embedding request timeout.
	EmbeddingTimeoutSeconds int `envconfig:"EMBEDDING_TIMEOUT_SECONDS" default:"60"`

	// EmbeddingMaxRetries is the embedding retry budget.
	EmbeddingMaxRetries int `envconfig:"EMBEDDING_MAX_RETRIES" default:"5"`

	// ModelDir is the directory holding local embedding model files.
	// Default: {data_dir}/models
	ModelDir string `envconfig:"MODEL_DIR"`

	// APITokens is a comma-separated list of token:owner_id:username
	// triples granting API access as the given owner.
	APITokens string `envconfig:"API_TOKENS"`

	// MCPOwner is the owner identifier the MCP tool surface serves.
	MCPOwner string `envconfig:"MCP_OWNER"`
}

// LoadFromEnv reads configuration from CURATE_-prefixed environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("curate", &cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}

// ToAppConfig resolves defaults that depend on other fields and converts to
// the immutable AppConfig.
func (e EnvConfig) ToAppConfig() (AppConfig, error) {
	dataDir := e.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}

	modelDir := e.ModelDir
	if modelDir == "" {
		modelDir = dataDir + "/models"
	}

	tokens, err := parseTokens(e.APITokens)
	if err != nil {
		return AppConfig{}, err
	}

	return AppConfig{
		host:           e.Host,
		port:           e.Port,
		dataDir:        dataDir,
		dbURL:          e.DBURL,
		logLevel:       e.LogLevel,
		logFormat:      e.LogFormat,
		youtubeAPIKey:  e.YouTubeAPIKey,
		youtubeBaseURL: e.YouTubeBaseURL,
		embedding: EmbeddingConfig{
			baseURL:    e.EmbeddingBaseURL,
			apiKey:     e.EmbeddingAPIKey,
			model:      e.EmbeddingModel,
			timeout:    time.Duration(e.EmbeddingTimeoutSeconds) * time.Second,
			maxRetries: e.EmbeddingMaxRetries,
		},
		modelDir: modelDir,
		tokens:   tokens,
		mcpOwner: e.MCPOwner,
	}, nil
}

// parseTokens parses "token:owner_id:username" triples from a comma-separated
// list. Empty entries are skipped.
func parseTokens(raw string) ([]TokenIdentity, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var tokens []TokenIdentity
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("malformed api token entry %q, want token:owner_id:username", entry)
		}
		tokens = append(tokens, NewTokenIdentity(parts[0], parts[1], parts[2]))
	}
	return tokens, nil
}
