// internal/stages/retrieve-documents/query.go
package retrievedocuments

import (
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// buildSearchBody builds the multi_match search request body.
func buildSearchBody(query string, numDocs int, fields []string) map[string]interface{} {
	multiMatch := map[string]interface{}{
		"query":     query,
		"type":      "best_fields",
		"fuzziness": "AUTO",
	}
	if len(fields) > 0 {
		multiMatch["fields"] = fields
	} else {
		multiMatch["fields"] = []string{"*"}
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": multiMatch,
		},
		"size": numDocs,
	}

	// Restrict _source to the searched fields when the caller named any.
	if len(fields) > 0 {
		body["_source"] = fields
	} else {
		body["_source"] = true
	}

	return body
}

// parseSearchResponse extracts hits into documents, preserving the engine's
// descending score order. A hit without a score is kept with score 0.
func parseSearchResponse(res *esapi.Response) (*Output, error) {
	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	hits, ok := r["hits"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected response format: missing hits")
	}

	output := &Output{Documents: []Document{}}

	if total, ok := hits["total"].(map[string]interface{}); ok {
		if value, ok := total["value"].(float64); ok {
			output.TotalHits = int64(value)
		}
	}
	if maxScore, ok := hits["max_score"].(float64); ok {
		output.MaxScore = maxScore
	}

	rawHits, ok := hits["hits"].([]interface{})
	if !ok {
		return output, nil
	}

	for _, raw := range rawHits {
		hit, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		doc := Document{}
		if id, ok := hit["_id"].(string); ok {
			doc.ID = id
		}
		if index, ok := hit["_index"].(string); ok {
			doc.Index = index
		}
		if score, ok := hit["_score"].(float64); ok {
			doc.Score = score
		}
		if source, ok := hit["_source"].(map[string]interface{}); ok {
			doc.Source = source
		}

		output.Documents = append(output.Documents, doc)
	}

	return output, nil
}
