// internal/cli/search.go
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"esrag/internal/common/database"
	commonerrors "esrag/internal/common/errors"
	"esrag/internal/pipeline"
)

var (
	searchIndex   string
	searchNumDocs int
	searchFields  string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search documents without generating an answer",
	Long: `Search runs the retrieval half of the pipeline and prints the ranked
documents. No Gemini call is made, so no API key is needed.

Examples:
  esrag search "machine learning"
  esrag search "deep learning" --index knowledge --num-docs 3
  esrag search "python" --fields title,content --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchIndex, "index", "_all", "ElasticSearch index to search")
	searchCmd.Flags().IntVar(&searchNumDocs, "num-docs", 5, "number of documents to retrieve")
	searchCmd.Flags().StringVar(&searchFields, "fields", "", "comma-separated list of fields to search/return")
}

func runSearch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	esClient, err := database.NewElasticsearch(cfg.Elasticsearch)
	if err != nil {
		return commonerrors.NewElasticsearchConnectionFailedError(err)
	}

	p := pipeline.New(cfg, esClient, nil, out, log)

	req := &pipeline.Request{Query: args[0]}
	if cmd.Flags().Changed("index") {
		req.Index = searchIndex
	}
	if cmd.Flags().Changed("num-docs") {
		req.NumDocs = searchNumDocs
	}
	if searchFields != "" {
		req.Fields = splitFields(searchFields)
	}

	result, err := p.Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	if len(result.Documents) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d results for: %s\n\n", len(result.Documents), args[0])
	for i, doc := range result.Documents {
		fmt.Fprintf(out, "--- [%d] %s/%s (score: %.2f) ---\n", i+1, doc.Index, doc.ID, doc.Score)

		if flagVerbose {
			data, err := json.MarshalIndent(doc.Source, "", "  ")
			if err != nil {
				fmt.Fprintf(out, "%v\n", doc.Source)
			} else {
				fmt.Fprintln(out, string(data))
			}
		} else {
			fmt.Fprintln(out, summarizeSource(doc.Source))
		}
		fmt.Fprintln(out)
	}

	return nil
}

// summarizeSource renders a document source as one compact line, truncated
// for display.
func summarizeSource(source map[string]interface{}) string {
	if title, ok := source["title"].(string); ok && title != "" {
		return title
	}

	data, err := json.Marshal(source)
	if err != nil {
		return fmt.Sprintf("%v", source)
	}

	text := string(data)
	if len(text) > 500 {
		text = text[:500] + "..."
	}
	return text
}
