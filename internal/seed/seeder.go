// internal/seed/seeder.go
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/xeipuuv/gojsonschema"

	"esrag/internal/common/database"
	commonerrors "esrag/internal/common/errors"
	"esrag/internal/common/logger"
)

// verificationQuery is run after seeding to confirm the corpus is searchable.
const verificationQuery = "機械学習"

// Seeder recreates the sample index and loads a corpus into it. The built-in
// demo corpus is used unless WithDocuments replaces it.
type Seeder struct {
	client    *database.ElasticsearchClient
	writer    io.Writer
	logger    logger.Logger
	documents []SeedDocument
}

func New(client *database.ElasticsearchClient, writer io.Writer, log logger.Logger) *Seeder {
	return &Seeder{
		client:    client,
		writer:    writer,
		documents: SampleDocuments(),
		logger: log.WithFields(map[string]interface{}{
			"component": "seed",
		}),
	}
}

// WithDocuments replaces the built-in corpus, for loading user-supplied
// document files.
func (s *Seeder) WithDocuments(docs []SeedDocument) *Seeder {
	s.documents = docs
	return s
}

// Run validates the corpus, recreates the index and bulk-loads the
// documents, then runs a verification search against the fresh index.
func (s *Seeder) Run(ctx context.Context, indexName string) error {
	if info, err := s.client.Info(ctx); err == nil {
		s.logger.Debug("connected to cluster", map[string]interface{}{
			"clusterName": info.ClusterName,
			"version":     info.Version.Number,
		})
	}

	if err := s.validateCorpus(); err != nil {
		return err
	}

	if err := s.recreateIndex(ctx, indexName); err != nil {
		return err
	}

	if err := s.insertDocuments(ctx, indexName); err != nil {
		return err
	}

	if err := s.verifySearch(ctx, indexName, verificationQuery); err != nil {
		return err
	}

	fmt.Fprintln(s.writer, "\n✓ Sample data setup complete!")
	return nil
}

// validateCorpus checks every document against the corpus schema before
// anything touches the cluster.
func (s *Seeder) validateCorpus() error {
	schemaLoader := gojsonschema.NewStringLoader(documentSchema)

	for _, doc := range s.documents {
		documentLoader := gojsonschema.NewGoLoader(doc.Source)

		result, err := gojsonschema.Validate(schemaLoader, documentLoader)
		if err != nil {
			return fmt.Errorf("validating document %s: %w", doc.ID, err)
		}

		if !result.Valid() {
			errs := make([]string, len(result.Errors()))
			for i, desc := range result.Errors() {
				errs[i] = desc.String()
			}
			return commonerrors.NewInvalidConfigurationError(
				fmt.Sprintf("document %s failed validation: %v", doc.ID, errs))
		}
	}

	s.logger.Debug("corpus validated", map[string]interface{}{
		"documents": len(s.documents),
	})
	return nil
}

func (s *Seeder) recreateIndex(ctx context.Context, indexName string) error {
	es := s.client.Client

	existsRes, err := es.Indices.Exists([]string{indexName}, es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("checking index existence: %w", err)
	}
	existsRes.Body.Close()

	if existsRes.StatusCode == http.StatusOK {
		fmt.Fprintf(s.writer, "Index '%s' already exists. Deleting...\n", indexName)

		delRes, err := es.Indices.Delete([]string{indexName}, es.Indices.Delete.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("deleting index %s: %w", indexName, err)
		}
		defer delRes.Body.Close()
		if delRes.IsError() {
			return fmt.Errorf("deleting index %s: %s", indexName, delRes.String())
		}
	}

	createRes, err := es.Indices.Create(indexName,
		es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("creating index %s: %w", indexName, err)
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return fmt.Errorf("creating index %s: %s", indexName, createRes.String())
	}

	fmt.Fprintf(s.writer, "Created index '%s' with mappings\n", indexName)
	return nil
}

func (s *Seeder) insertDocuments(ctx context.Context, indexName string) error {
	es := s.client.Client

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:      indexName,
		Client:     es,
		NumWorkers: 1,
	})
	if err != nil {
		return fmt.Errorf("creating bulk indexer: %w", err)
	}

	var failures []string
	for _, doc := range s.documents {
		data, err := json.Marshal(doc.Source)
		if err != nil {
			return fmt.Errorf("encoding document %s: %w", doc.ID, err)
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.ID,
			Body:       bytes.NewReader(data),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					failures = append(failures, fmt.Sprintf("%s: %v", item.DocumentID, err))
					return
				}
				failures = append(failures, fmt.Sprintf("%s: %s: %s", item.DocumentID, res.Error.Type, res.Error.Reason))
			},
		})
		if err != nil {
			return fmt.Errorf("queueing document %s: %w", doc.ID, err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("flushing bulk indexer: %w", err)
	}

	stats := bi.Stats()
	fmt.Fprintf(s.writer, "Successfully inserted %d documents\n", stats.NumIndexed)

	if len(failures) > 0 {
		fmt.Fprintf(s.writer, "Failed to insert %d documents\n", len(failures))
		for _, failure := range failures {
			fmt.Fprintf(s.writer, "  - %s\n", failure)
		}
		return fmt.Errorf("bulk insert failed for %d of %d documents", len(failures), len(s.documents))
	}

	refreshRes, err := es.Indices.Refresh(
		es.Indices.Refresh.WithIndex(indexName),
		es.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("refreshing index %s: %w", indexName, err)
	}
	refreshRes.Body.Close()

	fmt.Fprintln(s.writer, "Index refreshed - documents are now searchable")
	return nil
}

// verifySearch runs a boosted-title search against the fresh index and
// prints the top results.
func (s *Seeder) verifySearch(ctx context.Context, indexName, query string) error {
	es := s.client.Client

	fmt.Fprintf(s.writer, "\nTesting search with query: '%s'\n", query)

	searchBody := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^2", "content", "tags"},
				"type":   "best_fields",
			},
		},
		"size": 3,
	}

	data, err := json.Marshal(searchBody)
	if err != nil {
		return fmt.Errorf("encoding verification query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{indexName},
		Body:  bytes.NewReader(data),
	}

	res, err := req.Do(ctx, es)
	if err != nil {
		return fmt.Errorf("verification search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("verification search failed: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Score  float64           `json:"_score"`
				Source KnowledgeDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decoding verification response: %w", err)
	}

	fmt.Fprintf(s.writer, "Found %d total documents\n", parsed.Hits.Total.Value)
	fmt.Fprintln(s.writer, "Top results:")

	for i, hit := range parsed.Hits.Hits {
		fmt.Fprintf(s.writer, "  %d. %s (score: %.2f)\n", i+1, hit.Source.Title, hit.Score)
		fmt.Fprintf(s.writer, "     Category: %s\n", hit.Source.Category)
		fmt.Fprintf(s.writer, "     Tags: %s\n", strings.Join(hit.Source.Tags, ", "))
	}

	return nil
}
