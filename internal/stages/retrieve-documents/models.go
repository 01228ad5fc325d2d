// internal/stages/retrieve-documents/models.go
package retrievedocuments

type Input struct {
	Query   string   `json:"query"`
	Index   string   `json:"index,omitempty"`
	NumDocs int      `json:"numDocs,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// Document is a single retrieved hit. Slices of documents are always kept in
// the engine's descending relevance order.
type Document struct {
	ID     string                 `json:"id"`
	Index  string                 `json:"index"`
	Score  float64                `json:"score"`
	Source map[string]interface{} `json:"source"`
}

type Output struct {
	Documents []Document `json:"documents"`
	TotalHits int64      `json:"totalHits"`
	MaxScore  float64    `json:"maxScore"`
	Took      int64      `json:"took"` // milliseconds
}
