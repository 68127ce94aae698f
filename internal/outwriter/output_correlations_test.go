package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResults() []schema.CorrelationResult {
	return []schema.CorrelationResult{
		schema.EnrichCorrelation(1, schema.CorrelationResult{Source: "src/a.go", Target: "src/b.go", Correlation: 1, CoCommits: 4, MinCommits: 4}),
		schema.EnrichCorrelation(2, schema.CorrelationResult{Source: "src/a.go", Target: "docs/c.md", Correlation: 0.5, CoCommits: 1, MinCommits: 2}),
	}
}

func sampleMeta() schema.ReportMeta {
	return schema.ReportMeta{
		Title:          "🔗 Top 2 file correlations",
		TotalFiles:     3,
		TotalEdges:     2,
		TotalCommits:   5,
		LastCommitHash: "abc123",
	}
}

func TestWriteCorrelationCSV(t *testing.T) {
	cfg := &contract.Config{Precision: 2}
	var buf bytes.Buffer
	require.NoError(t, writeCorrelationCSV(&buf, sampleResults(), cfg))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows
	assert.Equal(t, correlationCSVHeader, records[0])
	assert.Equal(t, []string{"1", "src/a.go", "src/b.go", "1.00", "4", "4", "High"}, records[1])
	assert.Equal(t, []string{"2", "src/a.go", "docs/c.md", "0.50", "1", "2", "Medium"}, records[2])
}

func TestWriteCorrelationTable(t *testing.T) {
	cfg := &contract.Config{Precision: 1, Width: 200}
	var buf bytes.Buffer
	require.NoError(t, writeCorrelationTable(&buf, sampleResults(), sampleMeta(), cfg, 1500*time.Millisecond))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "🔗 Top 2 file correlations\n"))
	assert.Contains(t, out, "src/b.go")
	assert.Contains(t, out, "docs/c.md")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "Medium")
	assert.Contains(t, out, "Showing 2 of 2 correlations (files: 3, commits processed: 5)")
	assert.Contains(t, out, "Last processed commit: abc123")
}

func TestWriteCorrelationTableEmpty(t *testing.T) {
	cfg := &contract.Config{Precision: 2}
	var buf bytes.Buffer
	require.NoError(t, writeCorrelationTable(&buf, nil, schema.ReportMeta{}, cfg, 0))
	assert.Equal(t, "No correlations recorded yet.\n", buf.String())
}

func TestWriteRelatedTable(t *testing.T) {
	cfg := &contract.Config{Precision: 0, Width: 200}
	results := []schema.CorrelationResult{
		schema.EnrichCorrelation(1, schema.CorrelationResult{Source: "lib/x.go", Target: "src/a.go", Correlation: 0.75, CoCommits: 3, MinCommits: 4}),
	}
	var buf bytes.Buffer
	require.NoError(t, writeRelatedTable(&buf, "src/a.go", results, schema.ReportMeta{TotalEdges: 1}, cfg, 0))

	out := buf.String()
	assert.Contains(t, out, "lib/x.go")
	assert.NotContains(t, out, "src/a.go")
	assert.Contains(t, out, "75%")
}

func TestWriteRelatedTableEmpty(t *testing.T) {
	cfg := &contract.Config{Precision: 2}
	var buf bytes.Buffer
	require.NoError(t, writeRelatedTable(&buf, "a.go", nil, schema.ReportMeta{}, cfg, 0))
	assert.Equal(t, "No files have been committed together with a.go.\n", buf.String())
}

func TestPrintCorrelationResultsToFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "top.json")
		cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path, Precision: 2}
		require.NoError(t, PrintCorrelationResults(sampleResults(), sampleMeta(), cfg, 0))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, "src/a.go", decoded[0]["source"])
		assert.Equal(t, 0.5, decoded[1]["correlation"])
		assert.Equal(t, "Medium", decoded[1]["level"])
	})

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "top.yaml")
		cfg := &contract.Config{Output: schema.YAMLOut, OutputFile: path, Precision: 2}
		require.NoError(t, PrintCorrelationResults(sampleResults(), sampleMeta(), cfg, 0))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded []schema.CorrelationResult
		require.NoError(t, yaml.Unmarshal(data, &decoded))
		assert.Equal(t, sampleResults(), decoded)
	})

	t.Run("parquet", func(t *testing.T) {
		path := filepath.Join(dir, "top.parquet")
		cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: path, Precision: 2}
		require.NoError(t, PrintCorrelationResults(sampleResults(), sampleMeta(), cfg, 0))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})

	t.Run("parquet without file", func(t *testing.T) {
		cfg := &contract.Config{Output: schema.ParquetOut}
		require.Error(t, PrintCorrelationResults(sampleResults(), sampleMeta(), cfg, 0))
	})

	t.Run("related csv keeps both columns", func(t *testing.T) {
		path := filepath.Join(dir, "related.csv")
		cfg := &contract.Config{Output: schema.CSVOut, OutputFile: path, Precision: 2}
		require.NoError(t, PrintRelatedResults("src/a.go", sampleResults(), sampleMeta(), cfg, 0))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "rank,source,target,"))
	})
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "High", levelLabel(0.9, &contract.Config{}))
	assert.Equal(t, "Low", levelLabel(0.1, &contract.Config{}))
	assert.Contains(t, levelLabel(0.6, &contract.Config{UseColors: true}), "Medium")
}
