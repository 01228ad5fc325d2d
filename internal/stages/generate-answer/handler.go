// internal/stages/generate-answer/handler.go
package generateanswer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	googlegenai "google.golang.org/genai"

	"esrag/internal/common/genai"
	"esrag/internal/common/logger"
)

const (
	StageName = "generate-answer"
)

var (
	ErrGeminiConnectionFailed   = errors.New("GEMINI_CONNECTION_FAILED")
	ErrGenerationAuthFailed     = errors.New("GENERATION_AUTH_FAILED")
	ErrGenerationQuotaExceeded  = errors.New("GENERATION_QUOTA_EXCEEDED")
	ErrGenerationInvalidRequest = errors.New("GENERATION_INVALID_REQUEST")
	ErrGenerationFailed         = errors.New("GENERATION_FAILED")
)

type Handler struct {
	config *Config
	client *genai.GeminiClient
	logger logger.Logger
}

func NewHandler(config *Config, client *genai.GeminiClient, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute runs the generation stage with the configured timeout. The call is
// made exactly once; failures are classified, never retried here.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if input.Query == "" {
		return nil, errors.New("query cannot be empty")
	}

	prompt := h.buildPrompt(input)

	var genCfg *googlegenai.GenerateContentConfig
	if h.config.Temperature > 0 || h.config.MaxTokens > 0 {
		genCfg = &googlegenai.GenerateContentConfig{}
		if h.config.Temperature > 0 {
			genCfg.Temperature = googlegenai.Ptr(float32(h.config.Temperature))
		}
		if h.config.MaxTokens > 0 {
			genCfg.MaxOutputTokens = int32(h.config.MaxTokens)
		}
	}

	h.logger.Debug("generating response", map[string]interface{}{
		"model":        h.client.Model,
		"promptLength": len(prompt),
	})

	resp, err := h.client.Client.Models.GenerateContent(ctx, h.client.Model, googlegenai.Text(prompt), genCfg)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: request timed out", ErrGeminiConnectionFailed)
		}
		return nil, h.mapAPIError(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: model returned an empty response", ErrGenerationFailed)
	}

	output := &Output{Response: text, Model: h.client.Model}
	if resp.UsageMetadata != nil {
		output.Usage = &Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CandidatesTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
		h.logger.Debug("generation completed", map[string]interface{}{
			"responseLength": len(text),
			"totalTokens":    output.Usage.TotalTokens,
		})
	}

	return output, nil
}

func (h *Handler) buildPrompt(input *Input) string {
	var parts []string

	parts = append(parts, "You are an AI assistant that answers questions based on provided context documents.")
	parts = append(parts, "\nContext:")
	parts = append(parts, input.Context)
	parts = append(parts, fmt.Sprintf("\nUser Question: %s", input.Query))
	parts = append(parts, "\nPlease provide a comprehensive answer based on the context above. If the context doesn't contain relevant information, please say so. Be accurate and cite specific information from the context when possible.")
	parts = append(parts, "\nAnswer:")

	return strings.Join(parts, "\n")
}

// mapAPIError classifies a GenerateContent failure. The API reports an invalid
// key as 400 INVALID_ARGUMENT rather than 401, so the message is checked too.
func (h *Handler) mapAPIError(err error) error {
	var apiErr googlegenai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return fmt.Errorf("%w: %s", ErrGenerationAuthFailed, apiErr.Message)
		case apiErr.Code == 400 && strings.Contains(apiErr.Message, "API key not valid"):
			return fmt.Errorf("%w: %s", ErrGenerationAuthFailed, apiErr.Message)
		case apiErr.Code == 429:
			return fmt.Errorf("%w: %s", ErrGenerationQuotaExceeded, apiErr.Message)
		case apiErr.Code == 400:
			return fmt.Errorf("%w: %s", ErrGenerationInvalidRequest, apiErr.Message)
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: %s", ErrGeminiConnectionFailed, apiErr.Message)
		default:
			return fmt.Errorf("%w: %s", ErrGenerationFailed, apiErr.Message)
		}
	}

	return fmt.Errorf("%w: %v", ErrGeminiConnectionFailed, err)
}
