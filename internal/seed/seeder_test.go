// internal/seed/seeder_test.go
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"esrag/internal/common/config"
	"esrag/internal/common/database"
	commonerrors "esrag/internal/common/errors"
	"esrag/internal/common/logger"
)

const testIndex = "esrag_test_knowledge"

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

func TestSeeder_Run_RealElasticsearch(t *testing.T) {
	client := createRealElasticsearchClient(t)

	t.Cleanup(func() {
		client.Client.Indices.Delete([]string{testIndex})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var buf bytes.Buffer
	seeder := New(client, &buf, createTestLogger(t))

	require.NoError(t, seeder.Run(ctx, testIndex))

	console := buf.String()
	assert.Contains(t, console, "Created index '"+testIndex+"' with mappings")
	assert.Contains(t, console, "Successfully inserted 8 documents")
	assert.Contains(t, console, "Index refreshed - documents are now searchable")
	assert.Contains(t, console, "Testing search with query: '機械学習'")
	assert.Contains(t, console, "Top results:")
	assert.Contains(t, console, "機械学習の基礎")
	assert.Contains(t, console, "✓ Sample data setup complete!")
	assert.NotContains(t, console, "already exists")

	// A second run replaces the index instead of failing on it.
	buf.Reset()
	require.NoError(t, seeder.Run(ctx, testIndex))
	assert.Contains(t, buf.String(), "Index '"+testIndex+"' already exists. Deleting...")
	assert.Contains(t, buf.String(), "Successfully inserted 8 documents")

	t.Logf("✅ Seeded and verified index %s", testIndex)
}

func TestSampleDocuments(t *testing.T) {
	docs := SampleDocuments()
	require.Len(t, docs, 8)

	seen := make(map[string]bool)
	for _, doc := range docs {
		assert.False(t, seen[doc.ID], "duplicate document ID %s", doc.ID)
		seen[doc.ID] = true

		assert.NotEmpty(t, doc.Source.Title)
		assert.NotEmpty(t, doc.Source.Content)
		assert.NotEmpty(t, doc.Source.Category)
		assert.NotEmpty(t, doc.Source.Tags)
		assert.NotEmpty(t, doc.Source.Difficulty)
		assert.Equal(t, "ja", doc.Source.Language)
	}
}

func TestSeeder_ValidateCorpus(t *testing.T) {
	var buf bytes.Buffer
	seeder := New(nil, &buf, createTestLogger(t))

	assert.NoError(t, seeder.validateCorpus())
}

func TestSeeder_ValidateCorpus_RejectsBadCustomDocuments(t *testing.T) {
	var buf bytes.Buffer
	seeder := New(nil, &buf, createTestLogger(t)).WithDocuments([]SeedDocument{
		{
			ID: "1",
			Source: KnowledgeDocument{
				Title: "title only, everything else missing",
			},
		},
	})

	err := seeder.validateCorpus()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 1 failed validation")

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeInvalidConfiguration, stdErr.Code)
}

func TestLoadDocumentsFile(t *testing.T) {
	t.Run("assigns positional IDs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.json")
		content := `[
			{"title": "A", "content": "first", "category": "test", "tags": ["a"], "difficulty": "easy", "language": "en"},
			{"title": "B", "content": "second", "category": "test", "tags": ["b"], "difficulty": "easy", "language": "en"}
		]`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		docs, err := LoadDocumentsFile(path)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "1", docs[0].ID)
		assert.Equal(t, "2", docs[1].ID)
		assert.Equal(t, "A", docs[0].Source.Title)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"}`), 0644))

		_, err := LoadDocumentsFile(path)
		assert.Error(t, err)
	})

	t.Run("rejects an empty corpus", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.json")
		require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))

		_, err := LoadDocumentsFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no documents")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDocumentsFile(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}

func TestDocumentSchema_RejectsIncompleteDocument(t *testing.T) {
	schemaLoader := gojsonschema.NewStringLoader(documentSchema)
	documentLoader := gojsonschema.NewGoLoader(map[string]interface{}{
		"title":    "no content here",
		"category": "AI",
	})

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	require.NoError(t, err)
	assert.False(t, result.Valid())
}

func TestIndexMapping_CoversCorpusFields(t *testing.T) {
	var mapping struct {
		Mappings struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"mappings"`
	}
	require.NoError(t, json.Unmarshal([]byte(indexMapping), &mapping))

	for _, field := range []string{"title", "content", "category", "tags", "difficulty", "language"} {
		assert.Contains(t, mapping.Mappings.Properties, field)
	}
}
