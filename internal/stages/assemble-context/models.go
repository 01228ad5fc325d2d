// internal/stages/assemble-context/models.go
package assemblecontext

import (
	retrievedocuments "esrag/internal/stages/retrieve-documents"
)

type Input struct {
	Documents []retrievedocuments.Document `json:"documents"`
}

type Output struct {
	Context      string `json:"context"`
	NumDocuments int    `json:"numDocuments"`
}
