// internal/stages/report-results/handler.go
package reportresults

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"esrag/internal/common/logger"
)

const StageName = "report-results"

var (
	ErrResultWriteFailed = errors.New("RESULT_WRITE_FAILED")
)

// Handler renders the run result to the console and optionally persists it
// as a JSON file.
type Handler struct {
	config *Config
	writer io.Writer
	logger logger.Logger
}

func NewHandler(config *Config, writer io.Writer, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		writer: writer,
		logger: log.WithFields(map[string]interface{}{
			"stage": StageName,
		}),
	}
}

// Execute prints the report and, when an output path is set, writes the JSON
// artifact. The file is written after the console output, so a write failure
// never suppresses the answer the user already got.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	result := &RunResult{
		RunID:        uuid.New().String(),
		Query:        input.Query,
		Response:     input.Response,
		NumDocuments: len(input.Documents),
		Timestamp:    time.Now().UTC(),
	}
	if input.Verbose {
		result.Documents = input.Documents
	}

	h.printReport(input)

	output := &Output{Result: result}

	if input.OutputPath != "" {
		if err := h.saveResult(result, input.OutputPath); err != nil {
			return nil, err
		}
		fmt.Fprintf(h.writer, "\nResults saved to: %s\n", input.OutputPath)
		output.SavedPath = input.OutputPath

		h.logger.Debug("result file written", map[string]interface{}{
			"runId": result.RunID,
			"path":  input.OutputPath,
		})
	}

	return output, nil
}

func (h *Handler) printReport(input *Input) {
	banner := strings.Repeat("=", 80)
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(h.writer, "\n%s\n", banner)
	fmt.Fprintln(h.writer, "QUERY RESULTS")
	fmt.Fprintln(h.writer, banner)
	fmt.Fprintf(h.writer, "Query: %s\n", input.Query)
	fmt.Fprintf(h.writer, "Documents found: %d\n", len(input.Documents))

	fmt.Fprintf(h.writer, "\n%s\n", divider)
	fmt.Fprintln(h.writer, "GENERATED RESPONSE:")
	fmt.Fprintln(h.writer, divider)
	fmt.Fprintln(h.writer, input.Response)

	if input.Verbose && len(input.Documents) > 0 {
		fmt.Fprintf(h.writer, "\n%s\n", divider)
		fmt.Fprintln(h.writer, "RETRIEVED DOCUMENTS:")
		fmt.Fprintln(h.writer, divider)

		for i, doc := range input.Documents {
			fmt.Fprintf(h.writer, "\nDocument %d:\n", i+1)
			fmt.Fprintf(h.writer, "  Index: %s\n", doc.Index)
			fmt.Fprintf(h.writer, "  ID: %s\n", doc.ID)
			fmt.Fprintf(h.writer, "  Score: %.3f\n", doc.Score)

			content, err := json.MarshalIndent(doc.Source, "", "  ")
			if err != nil {
				fmt.Fprintf(h.writer, "  Content: %v\n", doc.Source)
				continue
			}
			fmt.Fprintf(h.writer, "  Content: %s\n", content)
		}
	}
}

func (h *Handler) saveResult(result *RunResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResultWriteFailed, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrResultWriteFailed, err)
	}

	return nil
}
