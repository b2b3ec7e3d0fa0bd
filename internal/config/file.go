package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors EnvConfig for YAML config files. Pointer fields
// distinguish "absent" from an explicit zero value.
type fileConfig struct {
	Host                    *string `yaml:"host"`
	Port                    *int    `yaml:"port"`
	DataDir                 *string `yaml:"data_dir"`
	DBURL                   *string `yaml:"db_url"`
	LogLevel                *string `yaml:"log_level"`
	LogFormat               *string `yaml:"log_format"`
	YouTubeAPIKey           *string `yaml:"youtube_api_key"`
	YouTubeBaseURL          *string `yaml:"youtube_base_url"`
	EmbeddingBaseURL        *string `yaml:"embedding_base_url"`
	EmbeddingAPIKey         *string `yaml:"embedding_api_key"`
	EmbeddingModel          *string `yaml:"embedding_model"`
	EmbeddingTimeoutSeconds *int    `yaml:"embedding_timeout_seconds"`
	EmbeddingMaxRetries     *int    `yaml:"embedding_max_retries"`
	ModelDir                *string `yaml:"model_dir"`
	APITokens               *string `yaml:"api_tokens"`
	MCPOwner                *string `yaml:"mcp_owner"`
}

// MergeFile overlays a YAML config file onto env. File values apply only
// where the corresponding CURATE_ environment variable is not set, so the
// precedence stays: env > file > defaults.
func MergeFile(env EnvConfig, path string) (EnvConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EnvConfig{}, fmt.Errorf("read config file: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return EnvConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	applyString(&env.Host, "CURATE_HOST", file.Host)
	applyInt(&env.Port, "CURATE_PORT", file.Port)
	applyString(&env.DataDir, "CURATE_DATA_DIR", file.DataDir)
	applyString(&env.DBURL, "CURATE_DB_URL", file.DBURL)
	applyString(&env.LogLevel, "CURATE_LOG_LEVEL", file.LogLevel)
	applyString(&env.LogFormat, "CURATE_LOG_FORMAT", file.LogFormat)
	applyString(&env.YouTubeAPIKey, "CURATE_YOUTUBE_API_KEY", file.YouTubeAPIKey)
	applyString(&env.YouTubeBaseURL, "CURATE_YOUTUBE_BASE_URL", file.YouTubeBaseURL)
	applyString(&env.EmbeddingBaseURL, "CURATE_EMBEDDING_BASE_URL", file.EmbeddingBaseURL)
	applyString(&env.EmbeddingAPIKey, "CURATE_EMBEDDING_API_KEY", file.EmbeddingAPIKey)
	applyString(&env.EmbeddingModel, "CURATE_EMBEDDING_MODEL", file.EmbeddingModel)
	applyInt(&env.EmbeddingTimeoutSeconds, "CURATE_EMBEDDING_TIMEOUT_SECONDS", file.EmbeddingTimeoutSeconds)
	applyInt(&env.EmbeddingMaxRetries, "CURATE_EMBEDDING_MAX_RETRIES", file.EmbeddingMaxRetries)
	applyString(&env.ModelDir, "CURATE_MODEL_DIR", file.ModelDir)
	applyString(&env.APITokens, "CURATE_API_TOKENS", file.APITokens)
	applyString(&env.MCPOwner, "CURATE_MCP_OWNER", file.MCPOwner)

	return env, nil
}

func applyString(dst *string, envKey string, fileVal *string) {
	if fileVal == nil {
		return
	}
	if _, set := os.LookupEnv(envKey); set {
		return
	}
	*dst = *fileVal
}

func applyInt(dst *int, envKey string, fileVal *int) {
	if fileVal == nil {
		return
	}
	if _, set := os.LookupEnv(envKey); set {
		return
	}
	*dst = *fileVal
}
