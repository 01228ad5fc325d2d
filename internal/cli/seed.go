// internal/cli/seed.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"esrag/internal/common/database"
	commonerrors "esrag/internal/common/errors"
	"esrag/internal/seed"
)

var (
	seedIndex    string
	seedDataFile string
	seedTestOnly bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create and populate the sample knowledge index",
	Long: `Seed recreates the sample index, validates and bulk-loads the demo
corpus (or a custom JSON document file), then runs a verification search.

Examples:
  esrag seed
  esrag seed --index my_knowledge
  esrag seed --data ./my_docs.json
  esrag seed --test-only`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedIndex, "index", seed.DefaultIndex, "index name to create")
	seedCmd.Flags().StringVar(&seedDataFile, "data", "", "JSON file of documents to index instead of the built-in corpus")
	seedCmd.Flags().BoolVar(&seedTestOnly, "test-only", false, "only test the connection, don't insert data")
}

func runSeed(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	esClient, err := database.NewElasticsearch(cfg.Elasticsearch)
	if err != nil {
		return commonerrors.NewElasticsearchConnectionFailedError(err)
	}

	if err := esClient.Ping(); err != nil {
		fmt.Fprintln(out, "Error: Cannot connect to ElasticSearch")
		return commonerrors.NewElasticsearchConnectionFailedError(err)
	}
	fmt.Fprintf(out, "✓ Connected to ElasticSearch at %s:%d\n", cfg.Elasticsearch.Host, cfg.Elasticsearch.Port)

	if seedTestOnly {
		fmt.Fprintln(out, "Connection test successful!")
		return nil
	}

	seeder := seed.New(esClient, out, log)
	if seedDataFile != "" {
		docs, err := seed.LoadDocumentsFile(seedDataFile)
		if err != nil {
			return commonerrors.NewInvalidConfigurationError(err.Error())
		}
		seeder = seeder.WithDocuments(docs)
	}

	return seeder.Run(cmd.Context(), seedIndex)
}
