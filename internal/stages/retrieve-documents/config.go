// internal/stages/retrieve-documents/config.go
package retrievedocuments

import "time"

type Config struct {
	Index   string
	NumDocs int
	Fields  []string
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Index:   "_all",
		NumDocs: 5,
		Timeout: 30 * time.Second,
	}
}
