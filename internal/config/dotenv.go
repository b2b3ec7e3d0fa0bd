package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file. If path is empty,
// ".env" in the current directory is used. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	return godotenv.Load(path)
}

// LoadConfig loads configuration from an optional .env file, an optional YAML
// config file, and environment variables. Environment variables win over the
// config file; the config file wins over defaults.
func LoadConfig(envPath string) (AppConfig, error) {
	if err := LoadDotEnv(envPath); err != nil {
		return AppConfig{}, err
	}

	envCfg, err := LoadFromEnv()
	if err != nil {
		return AppConfig{}, err
	}

	if envCfg.ConfigFile != "" {
		envCfg, err = MergeFile(envCfg, envCfg.ConfigFile)
		if err != nil {
			return AppConfig{}, err
		}
	}

	return envCfg.ToAppConfig()
}
