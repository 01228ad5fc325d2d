// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"esrag/internal/common/config"
	"esrag/internal/common/database"
	commonerrors "esrag/internal/common/errors"
	"esrag/internal/common/genai"
	"esrag/internal/common/logger"
	"esrag/internal/pipeline"
)

var (
	cfgFile      string
	flagHost     string
	flagPort     int
	flagUsername string
	flagPassword string
	flagVerbose  bool

	flagIndex   string
	flagNumDocs int
	flagFields  string
	flagOutput  string
	flagTest    bool

	cfg *config.Config
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "esrag [query]",
	Short: "Answer questions with ElasticSearch retrieval and Gemini generation",
	Long: `esrag retrieves the most relevant documents from ElasticSearch, assembles
them into a context block, and asks Gemini to answer the question using
that context.

Examples:
  esrag "What is machine learning?"
  esrag "Python programming" --index my_docs --num-docs 3
  esrag "data science" --fields title,content --verbose
  esrag "機械学習について教えて" --output result.json
  esrag --test
  esrag search "machine learning" --index knowledge
  esrag seed`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return commonerrors.NewInvalidConfigurationError(err.Error())
		}

		applyFlagOverrides(cmd)

		if err := config.Validate(cfg); err != nil {
			return commonerrors.NewInvalidConfigurationError(err.Error())
		}

		level := cfg.Logging.Level
		if flagVerbose {
			level = "debug"
		}
		log = logger.NewZapAdapter(logger.New(level, cfg.Logging.Format))

		return nil
	},
	RunE: runRoot,
}

// Execute runs the CLI, translating errors and interrupts into the process
// exit status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() == context.Canceled {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled by user")
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var stdErr *commonerrors.StandardError
		if errors.As(err, &stdErr) && stdErr.Code == commonerrors.ErrCodeMissingAPIKey {
			fmt.Fprintln(os.Stderr, "Please set it in your environment or .env file")
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to an env-format configuration file")
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "localhost", "ElasticSearch host")
	rootCmd.PersistentFlags().IntVar(&flagPort, "port", 9200, "ElasticSearch port")
	rootCmd.PersistentFlags().StringVar(&flagUsername, "username", "", "ElasticSearch username")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "ElasticSearch password")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "show detailed output")

	rootCmd.Flags().StringVar(&flagIndex, "index", "_all", "ElasticSearch index to search")
	rootCmd.Flags().IntVar(&flagNumDocs, "num-docs", 5, "number of documents to retrieve")
	rootCmd.Flags().StringVar(&flagFields, "fields", "", "comma-separated list of fields to search/return")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "save result to JSON file")
	rootCmd.Flags().BoolVar(&flagTest, "test", false, "test connections only")
}

// applyFlagOverrides copies explicitly set connection flags over the loaded
// configuration. Flags the user never touched leave env and file values in
// place.
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()

	if flags.Changed("host") {
		cfg.Elasticsearch.Host = flagHost
	}
	if flags.Changed("port") {
		cfg.Elasticsearch.Port = flagPort
	}
	if flags.Changed("username") {
		cfg.Elasticsearch.Username = flagUsername
	}
	if flags.Changed("password") {
		cfg.Elasticsearch.Password = flagPassword
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if !flagTest && len(args) == 0 {
		return fmt.Errorf("requires a query argument (or --test)")
	}

	// The key is needed up front even for --test, which probes Gemini.
	if cfg.Gemini.APIKey == "" {
		return commonerrors.NewMissingAPIKeyError()
	}

	esClient, err := database.NewElasticsearch(cfg.Elasticsearch)
	if err != nil {
		return commonerrors.NewElasticsearchConnectionFailedError(err)
	}

	geminiClient, err := genai.NewGemini(cmd.Context(), cfg.Gemini)
	if err != nil {
		return commonerrors.NewInvalidConfigurationError(err.Error())
	}

	p := pipeline.New(cfg, esClient, geminiClient, cmd.OutOrStdout(), log)

	if flagTest {
		if err := p.TestConnections(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All connections successful!")
		return nil
	}

	req := &pipeline.Request{
		Query:      args[0],
		Verbose:    flagVerbose,
		OutputPath: flagOutput,
	}
	if cmd.Flags().Changed("index") {
		req.Index = flagIndex
	}
	if cmd.Flags().Changed("num-docs") {
		req.NumDocs = flagNumDocs
	}
	if flagFields != "" {
		req.Fields = splitFields(flagFields)
	}

	_, err = p.Run(cmd.Context(), req)
	return err
}

// splitFields turns the --fields value into a field list, dropping empty
// entries so trailing commas don't produce blank field names.
func splitFields(raw string) []string {
	var fields []string
	for _, field := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}
