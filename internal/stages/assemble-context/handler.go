// internal/stages/assemble-context/handler.go
package assemblecontext

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"esrag/internal/common/logger"
	retrievedocuments "esrag/internal/stages/retrieve-documents"
)

const (
	StageName = "assemble-context"

	// EmptyContext is what generation receives when retrieval found nothing.
	EmptyContext = "No relevant documents found."
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute renders retrieved documents into the prompt context block. An empty
// document set renders the placeholder text; the pipeline still proceeds to
// generation with it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	output := &Output{
		Context:      buildContext(input.Documents),
		NumDocuments: len(input.Documents),
	}

	h.logger.Debug("context assembled", map[string]interface{}{
		"numDocuments":  output.NumDocuments,
		"contextLength": len(output.Context),
	})

	return output, nil
}

// buildContext renders documents in their retrieval order. Source keys are
// emitted sorted so the same documents always produce the same context text.
func buildContext(documents []retrievedocuments.Document) string {
	if len(documents) == 0 {
		return EmptyContext
	}

	parts := []string{"Retrieved context documents:"}
	for i, doc := range documents {
		var b strings.Builder
		fmt.Fprintf(&b, "\nDocument %d (relevance: %.2f):\n", i+1, doc.Score)

		keys := make([]string, 0, len(doc.Source))
		for key := range doc.Source {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if text, ok := formatValue(doc.Source[key]); ok {
				fmt.Fprintf(&b, "%s: %s\n", key, text)
			}
		}

		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n")
}

// formatValue renders scalar and list values. Nested objects are skipped.
func formatValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool, int, int64, float64:
		return fmt.Sprintf("%v", v), true
	case []string:
		return strings.Join(v, ", "), true
	case []interface{}:
		elems := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := formatValue(item); ok {
				elems = append(elems, s)
			} else {
				elems = append(elems, fmt.Sprintf("%v", item))
			}
		}
		return strings.Join(elems, ", "), true
	default:
		return "", false
	}
}
