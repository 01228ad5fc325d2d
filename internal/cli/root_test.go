// internal/cli/root_test.go
package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esrag/internal/common/config"
	"esrag/internal/common/database"
	commonerrors "esrag/internal/common/errors"
)

// requireElasticsearch skips the test when no local cluster is reachable.
func requireElasticsearch(t *testing.T) {
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
}

func executeCommand(args ...string) (string, error) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand_RequiresQuery(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	_, err := executeCommand()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a query argument")
}

func TestRootCommand_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := executeCommand("what is machine learning")
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeMissingAPIKey, stdErr.Code)
	assert.Contains(t, stdErr.Message, "GEMINI_API_KEY environment variable is required")
}

func TestRootCommand_ConfigFileMustExist(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	_, err := executeCommand("--config", "/nonexistent/path/.env", "some query")
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeInvalidConfiguration, stdErr.Code)

	// Later tests load config without the flag again.
	cfgFile = ""
}

func TestSeedCommand_TestOnly_RealElasticsearch(t *testing.T) {
	requireElasticsearch(t)

	output, err := executeCommand("seed", "--test-only")
	require.NoError(t, err)
	assert.Contains(t, output, "✓ Connected to ElasticSearch at")
	assert.Contains(t, output, "Connection test successful!")
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "simple list",
			raw:      "title,content",
			expected: []string{"title", "content"},
		},
		{
			name:     "spaces are trimmed",
			raw:      "title, content , tags",
			expected: []string{"title", "content", "tags"},
		},
		{
			name:     "trailing comma dropped",
			raw:      "title,",
			expected: []string{"title"},
		},
		{
			name:     "empty input",
			raw:      "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitFields(tt.raw))
		})
	}
}

func TestSummarizeSource(t *testing.T) {
	t.Run("prefers the title field", func(t *testing.T) {
		source := map[string]interface{}{
			"title":   "Go Basics",
			"content": "a long body",
		}
		assert.Equal(t, "Go Basics", summarizeSource(source))
	})

	t.Run("falls back to compact JSON", func(t *testing.T) {
		source := map[string]interface{}{"name": "no title here"}
		assert.Equal(t, `{"name":"no title here"}`, summarizeSource(source))
	})

	t.Run("truncates long output", func(t *testing.T) {
		long := make([]byte, 600)
		for i := range long {
			long[i] = 'x'
		}
		source := map[string]interface{}{"body": string(long)}

		summary := summarizeSource(source)
		assert.LessOrEqual(t, len(summary), 504)
		assert.Contains(t, summary, "...")
	})
}

func TestRootCommand_FlagOverridesBeatEnvironment(t *testing.T) {
	t.Setenv("ELASTICSEARCH_HOST", "env-host")
	t.Setenv("GEMINI_API_KEY", "")

	// The run stops at the missing API key, after config resolution.
	_, err := executeCommand("--host", "flag-host", "some query")
	require.Error(t, err)

	require.NotNil(t, cfg)
	assert.Equal(t, "flag-host", cfg.Elasticsearch.Host)

	// Without the flag the environment value wins.
	rootCmd.Flags().Lookup("host").Changed = false
	_, err = executeCommand("some query")
	require.Error(t, err)
	assert.Equal(t, "env-host", cfg.Elasticsearch.Host)
}
