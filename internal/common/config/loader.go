// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load builds the configuration from defaults, an optional YAML config file,
// environment variables and an optional .env file. envFile overrides the
// default .env search paths when non-empty and must exist. Flag overrides
// are applied by the CLI layer after loading.
func Load(envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// Enable ENV override like ELASTICSEARCH_HOST
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadEnvFile loads environment variables from a .env file. An explicitly
// requested file must exist; the default locations are all optional.
func loadEnvFile(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("error loading env file %s: %w", envFile, err)
		}
		return nil
	}

	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env", // for tests in test/e2e/
	}

	// Also try to find the project root by looking for go.mod
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			}
		}
	}

	return nil
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// overrideEmptyConfig fills values that only exist as environment variables.
// Viper's AutomaticEnv cannot surface keys that never appear in a config file.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Elasticsearch.Host == "" {
		if val := os.Getenv("ELASTICSEARCH_HOST"); val != "" {
			cfg.Elasticsearch.Host = val
		}
	}
	if cfg.Elasticsearch.Port == 0 {
		if val := os.Getenv("ELASTICSEARCH_PORT"); val != "" {
			if port, err := strconv.Atoi(val); err == nil {
				cfg.Elasticsearch.Port = port
			}
		}
	}
	if cfg.Elasticsearch.Username == "" {
		if val := os.Getenv("ELASTICSEARCH_USERNAME"); val != "" {
			cfg.Elasticsearch.Username = val
		}
	}
	if cfg.Elasticsearch.Password == "" {
		if val := os.Getenv("ELASTICSEARCH_PASSWORD"); val != "" {
			cfg.Elasticsearch.Password = val
		}
	}

	if cfg.Gemini.APIKey == "" {
		if val := os.Getenv("GEMINI_API_KEY"); val != "" {
			cfg.Gemini.APIKey = val
		}
	}
	if cfg.Gemini.Model == "" {
		if val := os.Getenv("GEMINI_MODEL"); val != "" {
			cfg.Gemini.Model = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "esrag"
	}

	if cfg.Elasticsearch.Host == "" {
		cfg.Elasticsearch.Host = "localhost"
	}
	if cfg.Elasticsearch.Port == 0 {
		cfg.Elasticsearch.Port = 9200
	}

	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.Gemini.Timeout == 0 {
		cfg.Gemini.Timeout = 60000
	}

	if cfg.Retrieval.Index == "" {
		cfg.Retrieval.Index = "_all"
	}
	if cfg.Retrieval.NumDocs == 0 {
		cfg.Retrieval.NumDocs = 5
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// Validate checks the fields every command needs. The Gemini API key is not
// checked here because retrieval-only commands run without it.
func Validate(cfg *Config) error {
	if cfg.Elasticsearch.Host == "" {
		return fmt.Errorf("elasticsearch.host is required")
	}
	if cfg.Elasticsearch.Port <= 0 || cfg.Elasticsearch.Port > 65535 {
		return fmt.Errorf("elasticsearch.port must be between 1 and 65535")
	}
	if cfg.Retrieval.NumDocs < 1 {
		return fmt.Errorf("retrieval.num_docs must be at least 1")
	}
	if cfg.Gemini.Model == "" {
		return fmt.Errorf("gemini.model is required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
