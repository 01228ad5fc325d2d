// internal/stages/generate-answer/config.go
package generateanswer

import "time"

type Config struct {
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}
