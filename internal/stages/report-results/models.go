// internal/stages/report-results/models.go
package reportresults

import (
	"time"

	retrievedocuments "esrag/internal/stages/retrieve-documents"
)

type Input struct {
	Query      string                       `json:"query"`
	Response   string                       `json:"response"`
	Documents  []retrievedocuments.Document `json:"documents"`
	Verbose    bool                         `json:"verbose"`
	OutputPath string                       `json:"outputPath,omitempty"`
}

// RunResult is the JSON artifact written when an output path is requested.
// Full documents are included only on verbose runs; the count is always there.
type RunResult struct {
	RunID        string                       `json:"run_id"`
	Query        string                       `json:"query"`
	Response     string                       `json:"response"`
	NumDocuments int                          `json:"num_documents"`
	Timestamp    time.Time                    `json:"timestamp"`
	Documents    []retrievedocuments.Document `json:"documents,omitempty"`
}

type Output struct {
	Result    *RunResult `json:"result"`
	SavedPath string     `json:"savedPath,omitempty"`
}
