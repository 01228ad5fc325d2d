// internal/common/genai/gemini.go
package genai

import (
	"context"
	"fmt"

	"esrag/internal/common/config"

	googlegenai "google.golang.org/genai"
)

// GeminiClient wraps the Google GenAI client
type GeminiClient struct {
	Client *googlegenai.Client
	Model  string
}

// NewGemini creates a new Gemini client
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := googlegenai.NewClient(ctx, &googlegenai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{Client: client, Model: cfg.Model}, nil
}

// Ping sends a minimal prompt to verify the API key and connectivity.
func (c *GeminiClient) Ping(ctx context.Context) error {
	_, err := c.Client.Models.GenerateContent(ctx, c.Model, googlegenai.Text("Hello"), nil)
	if err != nil {
		return fmt.Errorf("gemini ping failed: %w", err)
	}
	return nil
}
