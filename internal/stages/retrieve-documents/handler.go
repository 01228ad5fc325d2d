// internal/stages/retrieve-documents/handler.go
package retrievedocuments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"esrag/internal/common/logger"
)

const (
	StageName = "retrieve-documents"
)

var (
	ErrElasticsearchConnectionFailed = errors.New("ELASTICSEARCH_CONNECTION_FAILED")
	ErrInvalidCredentials            = errors.New("INVALID_CREDENTIALS")
	ErrSearchQueryFailed             = errors.New("SEARCH_QUERY_FAILED")
	ErrSearchTimeout                 = errors.New("SEARCH_TIMEOUT")
	ErrIndexNotFound                 = errors.New("INDEX_NOT_FOUND")
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute runs the retrieval stage with the configured timeout.
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

	index := input.Index
	if index == "" {
		index = h.config.Index
	}
	numDocs := input.NumDocs
	if numDocs <= 0 {
		numDocs = h.config.NumDocs
	}
	fields := input.Fields
	if len(fields) == 0 {
		fields = h.config.Fields
	}

	h.logger.Debug("executing search", map[string]interface{}{
		"index":   index,
		"numDocs": numDocs,
		"fields":  fields,
	})

	body, err := json.Marshal(buildSearchBody(input.Query, numDocs, fields))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}

	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  strings.NewReader(string(body)),
	}

	start := time.Now()
	res, err := req.Do(ctx, h.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrSearchTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		switch res.StatusCode {
		case 401, 403:
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, res.Status())
		case 404:
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, index)
		default:
			return nil, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.String())
		}
	}

	output, err := parseSearchResponse(res)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}
	output.Took = time.Since(start).Milliseconds()

	h.logger.Debug("search completed", map[string]interface{}{
		"totalHits": output.TotalHits,
		"returned":  len(output.Documents),
		"took":      output.Took,
	})

	return output, nil
}
