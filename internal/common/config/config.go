// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Gemini        GeminiConfig        `mapstructure:"gemini"`
	Retrieval     RetrievalConfig     `mapstructure:"retrieval"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ElasticsearchConfig holds connection settings for the search backend.
type ElasticsearchConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// GetURL returns the base URL of the configured node.
func (e ElasticsearchConfig) GetURL() string {
	return fmt.Sprintf("http://%s:%d", e.Host, e.Port)
}

// Addresses returns the node list in the form the official client expects.
func (e ElasticsearchConfig) Addresses() []string {
	return []string{e.GetURL()}
}

// GeminiConfig holds settings for the Gemini generation API. Temperature and
// MaxTokens are only sent to the API when set to a non-zero value.
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// RetrievalConfig holds defaults for the document search stage.
type RetrievalConfig struct {
	Index   string   `mapstructure:"index"`
	NumDocs int      `mapstructure:"num_docs"`
	Fields  []string `mapstructure:"fields"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
