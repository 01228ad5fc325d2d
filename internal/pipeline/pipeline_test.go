// internal/pipeline/pipeline_test.go
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esrag/internal/common/config"
	"esrag/internal/common/database"
	commonerrors "esrag/internal/common/errors"
	"esrag/internal/common/genai"
	"esrag/internal/common/logger"
	generateanswer "esrag/internal/stages/generate-answer"
	reportresults "esrag/internal/stages/report-results"
	retrievedocuments "esrag/internal/stages/retrieve-documents"
)

const testIndex = "esrag_test_pipeline"

func createTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "esrag",
			Environment: "test",
		},
		Elasticsearch: config.ElasticsearchConfig{
			Host: "localhost",
			Port: 9200,
		},
		Gemini: config.GeminiConfig{
			APIKey:  "test-key",
			Model:   "gemini-1.5-flash",
			Timeout: 30000,
		},
		Retrieval: config.RetrievalConfig{
			Index:   testIndex,
			NumDocs: 5,
		},
		Logging: config.LoggingConfig{
			Level:  "debug",
			Format: "console",
		},
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewTestLogger(t)
}

// createRealElasticsearchClient connects to a locally running Elasticsearch
// instance, skipping the test when none is reachable.
func createRealElasticsearchClient(t *testing.T) *database.ElasticsearchClient {
	cfg := config.ElasticsearchConfig{
		Host: "localhost",
		Port: 9200,
	}
	if host := os.Getenv("ELASTICSEARCH_HOST"); host != "" {
		cfg.Host = host
	}

	client, err := database.NewElasticsearch(cfg)
	if err != nil {
		t.Skipf("Skipping test - could not create Elasticsearch client: %v", err)
	}

	if err := client.Ping(); err != nil {
		t.Skipf("Skipping test - Elasticsearch not available at %s: %v", cfg.GetURL(), err)
	}

	return client
}

func setupRealTestData(t *testing.T, client *database.ElasticsearchClient) {
	es := client.Client

	_, err := es.Indices.Delete([]string{testIndex})
	require.NoError(t, err)

	docs := []string{
		`{"title": "Go Programming Basics", "content": "Go is a statically typed language designed at Google."}`,
		`{"title": "Elasticsearch Query Guide", "content": "The multi_match query searches several fields at once."}`,
	}
	for i, doc := range docs {
		req := esapi.IndexRequest{
			Index:      testIndex,
			DocumentID: fmt.Sprintf("%d", i+1),
			Body:       strings.NewReader(doc),
			Refresh:    "wait_for",
		}
		res, err := req.Do(context.Background(), es)
		require.NoError(t, err)
		require.False(t, res.IsError(), "indexing test document failed: %s", res.String())
		res.Body.Close()
	}

	_, err = es.Indices.Refresh(es.Indices.Refresh.WithIndex(testIndex))
	require.NoError(t, err)

	t.Cleanup(func() {
		es.Indices.Delete([]string{testIndex})
	})
}

func TestPipeline_Run_GenerationAuthFailure_RealElasticsearch(t *testing.T) {
	esClient := createRealElasticsearchClient(t)
	setupRealTestData(t, esClient)

	// An invalid key lets the retrieval half run for real while the
	// generation half fails with a deterministic classification.
	geminiClient, err := genai.NewGemini(context.Background(), config.GeminiConfig{
		APIKey: "invalid-key-for-testing",
		Model:  "gemini-1.5-flash",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	p := New(createTestConfig(), esClient, geminiClient, &buf, createTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := p.Run(ctx, &Request{Query: "Go programming"})
	require.Error(t, err)
	assert.Nil(t, result)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeGenerationAuthFailed, stdErr.Code)
	assert.Equal(t, "GENERATION", commonerrors.GetErrorCategory(stdErr.Code))

	console := buf.String()
	assert.Contains(t, console, "🔍 Searching for documents related to: 'Go programming'")
	assert.Contains(t, console, "📄 Found")
	assert.Contains(t, console, "🤖 Generating response with Gemini...")
	assert.NotContains(t, console, "QUERY RESULTS")

	t.Logf("✅ Pipeline aborted with classified generation error: %v", err)
}

func TestPipeline_TestConnections_ElasticsearchDown(t *testing.T) {
	cfg := createTestConfig()
	cfg.Elasticsearch.Port = 59999

	esClient, err := database.NewElasticsearch(cfg.Elasticsearch)
	require.NoError(t, err)

	// Zero-value Gemini client: the probe order guarantees it is never
	// touched when Elasticsearch is unreachable.
	var buf bytes.Buffer
	p := New(cfg, esClient, &genai.GeminiClient{}, &buf, createTestLogger(t))

	err = p.TestConnections(context.Background())
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeElasticsearchConnectionFailed, stdErr.Code)

	console := buf.String()
	assert.Contains(t, console, "Error: Cannot connect to ElasticSearch")
	assert.NotContains(t, console, "✓ ElasticSearch connection successful")
	assert.NotContains(t, console, "Gemini")
}

func TestPipeline_TestConnections_Success_RealServices(t *testing.T) {
	esClient := createRealElasticsearchClient(t)

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping test - GEMINI_API_KEY not set")
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-1.5-flash"
	}

	geminiClient, err := genai.NewGemini(context.Background(), config.GeminiConfig{
		APIKey: apiKey,
		Model:  model,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	p := New(createTestConfig(), esClient, geminiClient, &buf, createTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	require.NoError(t, p.TestConnections(ctx))

	console := buf.String()
	assert.Contains(t, console, "✓ ElasticSearch connection successful")
	assert.Contains(t, console, "✓ Gemini API connection successful")

	t.Logf("✅ Both service probes succeeded")
}

func TestPipeline_Run_NilRequest(t *testing.T) {
	esClient := &database.ElasticsearchClient{Client: &elasticsearch.Client{}}

	var buf bytes.Buffer
	p := New(createTestConfig(), esClient, &genai.GeminiClient{}, &buf, createTestLogger(t))

	result, err := p.Run(context.Background(), nil)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "request cannot be nil")
}

func TestMapRetrievalError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		index        string
		expectedCode commonerrors.ErrorCode
	}{
		{
			name:         "timeout",
			err:          fmt.Errorf("%w: context deadline exceeded", retrievedocuments.ErrSearchTimeout),
			index:        "articles",
			expectedCode: commonerrors.ErrCodeSearchTimeout,
		},
		{
			name:         "index not found",
			err:          fmt.Errorf("%w: missing", retrievedocuments.ErrIndexNotFound),
			index:        "missing",
			expectedCode: commonerrors.ErrCodeIndexNotFound,
		},
		{
			name:         "invalid credentials",
			err:          fmt.Errorf("%w: 401 Unauthorized", retrievedocuments.ErrInvalidCredentials),
			index:        "articles",
			expectedCode: commonerrors.ErrCodeInvalidCredentials,
		},
		{
			name:         "connection failed",
			err:          fmt.Errorf("%w: dial tcp: connection refused", retrievedocuments.ErrElasticsearchConnectionFailed),
			index:        "articles",
			expectedCode: commonerrors.ErrCodeElasticsearchConnectionFailed,
		},
		{
			name:         "query failed",
			err:          fmt.Errorf("%w: parse error", retrievedocuments.ErrSearchQueryFailed),
			index:        "articles",
			expectedCode: commonerrors.ErrCodeSearchQueryFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapRetrievalError(tt.err, tt.index)

			var stdErr *commonerrors.StandardError
			require.ErrorAs(t, mapped, &stdErr)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
		})
	}

	t.Run("unknown errors pass through", func(t *testing.T) {
		err := fmt.Errorf("query cannot be empty")
		assert.Equal(t, err, mapRetrievalError(err, "articles"))
	})
}

func TestMapGenerationError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode commonerrors.ErrorCode
	}{
		{
			name:         "auth failure",
			err:          fmt.Errorf("%w: API key not valid", generateanswer.ErrGenerationAuthFailed),
			expectedCode: commonerrors.ErrCodeGenerationAuthFailed,
		},
		{
			name:         "quota exceeded",
			err:          fmt.Errorf("%w: rate limited", generateanswer.ErrGenerationQuotaExceeded),
			expectedCode: commonerrors.ErrCodeGenerationQuotaExceeded,
		},
		{
			name:         "invalid request",
			err:          fmt.Errorf("%w: bad payload", generateanswer.ErrGenerationInvalidRequest),
			expectedCode: commonerrors.ErrCodeGenerationInvalidRequest,
		},
		{
			name:         "connection failed",
			err:          fmt.Errorf("%w: request timed out", generateanswer.ErrGeminiConnectionFailed),
			expectedCode: commonerrors.ErrCodeGeminiConnectionFailed,
		},
		{
			name:         "empty response",
			err:          fmt.Errorf("%w: model returned an empty response", generateanswer.ErrGenerationFailed),
			expectedCode: commonerrors.ErrCodeGenerationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapGenerationError(tt.err)

			var stdErr *commonerrors.StandardError
			require.ErrorAs(t, mapped, &stdErr)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
		})
	}
}

func TestMapReportError(t *testing.T) {
	err := fmt.Errorf("%w: permission denied", reportresults.ErrResultWriteFailed)
	mapped := mapReportError(err, "/tmp/result.json")

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, mapped, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeResultWriteFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "/tmp/result.json")

	plain := fmt.Errorf("input cannot be nil")
	assert.Equal(t, plain, mapReportError(plain, ""))
}
