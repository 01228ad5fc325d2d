// internal/stages/generate-answer/models.go
package generateanswer

type Input struct {
	Query   string `json:"query"`
	Context string `json:"context"`
}

type Output struct {
	Response string `json:"response"`
	Model    string `json:"model"`
	Usage    *Usage `json:"usage,omitempty"`
}

// Usage carries the token accounting reported by the API.
type Usage struct {
	PromptTokens     int32 `json:"promptTokens"`
	CandidatesTokens int32 `json:"candidatesTokens"`
	TotalTokens      int32 `json:"totalTokens"`
}
