// internal/stages/assemble-context/config.go
package assemblecontext

import "time"

// No stage-specific settings yet; the struct keeps the handler wiring uniform.
type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
