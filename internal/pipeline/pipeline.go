// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"io"

	"esrag/internal/common/config"
	"esrag/internal/common/database"
	commonerrors "esrag/internal/common/errors"
	"esrag/internal/common/genai"
	"esrag/internal/common/logger"
	assemblecontext "esrag/internal/stages/assemble-context"
	generateanswer "esrag/internal/stages/generate-answer"
	reportresults "esrag/internal/stages/report-results"
	retrievedocuments "esrag/internal/stages/retrieve-documents"
)

// Request describes a single RAG run. Zero values fall back to the loaded
// configuration.
type Request struct {
	Query      string
	Index      string
	NumDocs    int
	Fields     []string
	Verbose    bool
	OutputPath string
}

type Result struct {
	RunID        string
	Query        string
	Response     string
	Documents    []retrievedocuments.Document
	NumDocuments int
	SavedPath    string
}

// Pipeline chains the four stages of a run: retrieve, assemble, generate,
// report. Stage handlers are wired once at construction time.
type Pipeline struct {
	retrieve *retrievedocuments.Handler
	assemble *assemblecontext.Handler
	generate *generateanswer.Handler
	report   *reportresults.Handler
	es       *database.ElasticsearchClient
	gemini   *genai.GeminiClient
	// defaultIndex names the index searched when a request leaves it unset,
	// kept here so error messages can report the index actually used.
	defaultIndex string
	writer       io.Writer
	logger       logger.Logger
}

func New(cfg *config.Config, es *database.ElasticsearchClient, gemini *genai.GeminiClient, writer io.Writer, log logger.Logger) *Pipeline {
	retrieveCfg := retrievedocuments.LoadConfig()
	retrieveCfg.Index = cfg.Retrieval.Index
	retrieveCfg.NumDocs = cfg.Retrieval.NumDocs
	retrieveCfg.Fields = cfg.Retrieval.Fields

	generateCfg := generateanswer.LoadConfig()
	if cfg.Gemini.Timeout > 0 {
		generateCfg.Timeout = config.GetDuration(cfg.Gemini.Timeout)
	}
	generateCfg.Temperature = cfg.Gemini.Temperature
	generateCfg.MaxTokens = cfg.Gemini.MaxTokens

	return &Pipeline{
		retrieve:     retrievedocuments.NewHandler(retrieveCfg, es.Client, log),
		assemble:     assemblecontext.NewHandler(assemblecontext.LoadConfig(), log),
		generate:     generateanswer.NewHandler(generateCfg, gemini, log),
		report:       reportresults.NewHandler(reportresults.LoadConfig(), writer, log),
		es:           es,
		gemini:       gemini,
		defaultIndex: retrieveCfg.Index,
		writer:       writer,
		logger: log.WithFields(map[string]interface{}{
			"component": "pipeline",
		}),
	}
}

// Run executes one retrieval-augmented generation pass. Retrieval failures
// abort the run; an empty result set does not, the answer is generated from
// the empty-context placeholder instead. Each stage runs exactly once.
func (p *Pipeline) Run(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	index := req.Index
	if index == "" {
		index = p.defaultIndex
	}

	p.logger.Debug("pipeline run started", map[string]interface{}{
		"query": req.Query,
		"index": index,
	})

	fmt.Fprintf(p.writer, "🔍 Searching for documents related to: '%s'\n", req.Query)

	searchOut, err := p.retrieve.Execute(ctx, &retrievedocuments.Input{
		Query:   req.Query,
		Index:   index,
		NumDocs: req.NumDocs,
		Fields:  req.Fields,
	})
	if err != nil {
		return nil, p.stageFailed(retrievedocuments.StageName, mapRetrievalError(err, index))
	}

	if len(searchOut.Documents) > 0 {
		fmt.Fprintf(p.writer, "📄 Found %d relevant documents\n", len(searchOut.Documents))
	} else {
		fmt.Fprintln(p.writer, "❌ No relevant documents found")
	}

	assembleOut, err := p.assemble.Execute(ctx, &assemblecontext.Input{
		Documents: searchOut.Documents,
	})
	if err != nil {
		return nil, p.stageFailed(assemblecontext.StageName, err)
	}

	fmt.Fprintln(p.writer, "🤖 Generating response with Gemini...")

	genOut, err := p.generate.Execute(ctx, &generateanswer.Input{
		Query:   req.Query,
		Context: assembleOut.Context,
	})
	if err != nil {
		return nil, p.stageFailed(generateanswer.StageName, mapGenerationError(err))
	}

	reportOut, err := p.report.Execute(ctx, &reportresults.Input{
		Query:      req.Query,
		Response:   genOut.Response,
		Documents:  searchOut.Documents,
		Verbose:    req.Verbose,
		OutputPath: req.OutputPath,
	})
	if err != nil {
		return nil, p.stageFailed(reportresults.StageName, mapReportError(err, req.OutputPath))
	}

	result := &Result{
		RunID:        reportOut.Result.RunID,
		Query:        req.Query,
		Response:     genOut.Response,
		Documents:    searchOut.Documents,
		NumDocuments: len(searchOut.Documents),
		SavedPath:    reportOut.SavedPath,
	}

	p.logger.Debug("pipeline run completed", map[string]interface{}{
		"runId":        result.RunID,
		"numDocuments": result.NumDocuments,
	})

	return result, nil
}

// Search runs the retrieval stage alone, for callers that want the ranked
// documents without a generated answer. The Gemini client is never touched,
// so a pipeline built for Search may carry a nil one.
func (p *Pipeline) Search(ctx context.Context, req *Request) (*retrievedocuments.Output, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	index := req.Index
	if index == "" {
		index = p.defaultIndex
	}

	out, err := p.retrieve.Execute(ctx, &retrievedocuments.Input{
		Query:   req.Query,
		Index:   index,
		NumDocs: req.NumDocs,
		Fields:  req.Fields,
	})
	if err != nil {
		return nil, p.stageFailed(retrievedocuments.StageName, mapRetrievalError(err, index))
	}

	return out, nil
}

// TestConnections probes both backing services. Elasticsearch is checked
// first; when it is unreachable the Gemini probe is skipped entirely.
func (p *Pipeline) TestConnections(ctx context.Context) error {
	if err := p.es.Ping(); err != nil {
		fmt.Fprintln(p.writer, "Error: Cannot connect to ElasticSearch")
		return commonerrors.NewElasticsearchConnectionFailedError(err)
	}
	fmt.Fprintln(p.writer, "✓ ElasticSearch connection successful")

	if err := p.gemini.Ping(ctx); err != nil {
		fmt.Fprintf(p.writer, "Connection test failed: %v\n", err)
		return commonerrors.NewGeminiConnectionFailedError(err)
	}
	fmt.Fprintln(p.writer, "✓ Gemini API connection successful")

	return nil
}

func (p *Pipeline) stageFailed(stage string, err error) error {
	p.logger.Error("stage failed", map[string]interface{}{
		"stage": stage,
		"error": err.Error(),
	})
	return err
}
