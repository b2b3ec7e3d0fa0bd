package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/curatehq/curate"
	"github.com/curatehq/curate/infrastructure/api"
	"github.com/curatehq/curate/infrastructure/provider"
	"github.com/curatehq/curate/internal/config"
	"github.com/curatehq/curate/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. YAML config file (CURATE_CONFIG_FILE)
  3. .env file (if --env-file specified or .env exists in current directory)
  4. Environment variables
  5. Command line flags

Environment variables (all prefixed CURATE_):
  HOST                       Server host to bind to (default: 0.0.0.0)
  PORT                       Server port to listen on (default: 8080)
  DATA_DIR                   Data directory (default: ~/.curate)
  DB_URL                     Database URL (default: sqlite:///{data_dir}/curate.db)
  LOG_LEVEL                  Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                 Log format: pretty, json (default: pretty)
  API_TOKENS                 Comma-separated token:owner_id:username triples
  MCP_OWNER                  Owner identifier served by the /mcp endpoint
  YOUTUBE_API_KEY            YouTube Data API key for metadata lookups
  EMBEDDING_BASE_URL         OpenAI-compatible embedding endpoint
  EMBEDDING_API_KEY          Embedding endpoint API key (empty: local model)
  EMBEDDING_MODEL            Embedding model (default: text-embedding-3-small)
  MODEL_DIR                  Local embedding model directory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flags take precedence over environment.
	var overrides []config.AppConfigOption
	if host != "" {
		overrides = append(overrides, config.WithHost(host))
	}
	if port > 0 {
		overrides = append(overrides, config.WithPort(port))
	}
	cfg = cfg.Apply(overrides...)

	logger := log.Configure(log.Format(cfg.LogFormat()), cfg.LogLevel())
	logger.Info("starting curate", "version", version, "addr", cfg.Addr())

	opts := []curate.Option{
		curate.WithDataDir(cfg.DataDir()),
		curate.WithLogger(logger),
		curate.WithYouTubeAPIKey(cfg.YouTubeAPIKey()),
	}
	if cfg.YouTubeBaseURL() != "" {
		opts = append(opts, curate.WithYouTubeBaseURL(cfg.YouTubeBaseURL()))
	}
	opts = append(opts, databaseOption(cfg))

	// An external embedding endpoint takes precedence; without one the
	// client falls back to the local model under the model directory.
	if emb := cfg.Embedding(); emb.APIKey() != "" {
		opts = append(opts, curate.WithOpenAIConfig(provider.OpenAIConfig{
			APIKey:     emb.APIKey(),
			BaseURL:    emb.BaseURL(),
			Model:      emb.Model(),
			Timeout:    emb.Timeout(),
			MaxRetries: emb.MaxRetries(),
		}))
	} else if cfg.ModelDir() != "" {
		opts = append(opts, curate.WithModelDir(cfg.ModelDir()))
	}

	client, err := curate.New(opts...)
	if err != nil {
		return fmt.Errorf("create curate client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close curate client", "error", err)
		}
	}()

	// Every configured token identity must map to an owner record.
	ctx := context.Background()
	for _, t := range cfg.Tokens() {
		if err := client.EnsureOwner(ctx, t.OwnerID(), t.Username()); err != nil {
			return fmt.Errorf("ensure owner: %w", err)
		}
	}

	apiServer := api.NewAPIServer(client, cfg.Tokens(), cfg.MCPOwner())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	if err := apiServer.ListenAndServe(cfg.Addr()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// databaseOption picks the storage backend from the configured URL. An empty
// URL defaults to SQLite under the data directory.
func databaseOption(cfg config.AppConfig) curate.Option {
	dbURL := cfg.DBURL()
	switch {
	case dbURL == "":
		return curate.WithSQLite("")
	case strings.HasPrefix(dbURL, "sqlite:///"):
		return curate.WithSQLite(strings.TrimPrefix(dbURL, "sqlite:///"))
	default:
		return curate.WithPostgres(dbURL)
	}
}
