package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/internal/graphio"
	mcp_internal "github.com/egorpavlikhin/git-correlation-graph/internal/mcp"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server *server.MCPServer
	git    *contract.MockGitClient
	reader *contract.MockHistoryReader
	opened []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	baseCfg := &contract.Config{
		RepoPath:              "/repos/app",
		BatchSize:             100,
		ResultLimit:           10,
		Precision:             2,
		Output:                schema.TextOut,
		StoreBackend:          schema.JSONBackend,
		GraphFile:             filepath.Join(dir, "graph.json"),
		ClusterMinCommits:     1,
		ClusterMinCorrelation: 0.4,
	}
	f := &fixture{git: &contract.MockGitClient{}, reader: &contract.MockHistoryReader{}}
	f.server = mcp_internal.NewMCPServer(baseCfg, mcp_internal.Deps{
		GitClient: f.git,
		OpenStore: func(cfg *contract.Config) (contract.GraphStore, error) {
			f.opened = append(f.opened, cfg.GraphFile)
			return graphio.NewJSONGraphStore(cfg.GraphFile), nil
		},
		NewReader: func(*contract.Config) contract.HistoryReader { return f.reader },
	})
	return f
}

func (f *fixture) call(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := f.server.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

// analyzeTwoCommits feeds a.go+b.go and then a.go+b.go+c.go through analyze_repository.
func (f *fixture) analyzeTwoCommits(t *testing.T) {
	t.Helper()
	c1 := schema.Commit{Hash: "c1", AuthorTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c2 := schema.Commit{Hash: "c2", AuthorTime: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Parents: []string{"c1"}}
	f.reader.On("GetCommitBatch", mock.Anything, "", 100).Return([]schema.Commit{c1, c2}, nil)
	f.reader.On("GetFilesInCommit", mock.Anything, c1, false).Return([]string{"a.go", "b.go"}, nil)
	f.reader.On("GetFilesInCommit", mock.Anything, c2, false).Return([]string{"a.go", "b.go", "c.go"}, nil)
	f.reader.On("GetDeletedFiles", mock.Anything, c2).Return([]string{}, nil)

	res := f.call(t, "analyze_repository", nil)
	require.False(t, res.IsError, text(res))

	var summary schema.AnalysisSummary
	require.NoError(t, json.Unmarshal([]byte(text(res)), &summary))
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, "c2", summary.LastCommitHash)
	assert.True(t, summary.Saved)
}

func TestMCPServerTools(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"analyze_repository", "get_top_correlations", "get_related_files", "get_clusters"} {
		assert.NotNil(t, f.server.GetTool(name), name)
	}
}

func TestMCPServerAnalyzeThenQuery(t *testing.T) {
	f := newFixture(t)
	f.analyzeTwoCommits(t)

	t.Run("top correlations", func(t *testing.T) {
		res := f.call(t, "get_top_correlations", map[string]any{"limit": 1.0})
		require.False(t, res.IsError, text(res))

		var body struct {
			Graph        schema.ReportMeta          `json:"graph"`
			Correlations []schema.CorrelationResult `json:"correlations"`
		}
		require.NoError(t, json.Unmarshal([]byte(text(res)), &body))
		require.Len(t, body.Correlations, 1)
		assert.Equal(t, "a.go", body.Correlations[0].Source)
		assert.Equal(t, "b.go", body.Correlations[0].Target)
		assert.Equal(t, 2, body.Correlations[0].CoCommits)
		assert.Equal(t, 3, body.Graph.TotalFiles)
		assert.Equal(t, 2, body.Graph.TotalCommits)
	})

	t.Run("related files", func(t *testing.T) {
		res := f.call(t, "get_related_files", map[string]any{"path": "c.go"})
		require.False(t, res.IsError, text(res))
		assert.Contains(t, text(res), `"path": "c.go"`)
		assert.Contains(t, text(res), `"target": "a.go"`)
		assert.Contains(t, text(res), `"target": "b.go"`)
	})

	t.Run("clusters", func(t *testing.T) {
		res := f.call(t, "get_clusters", map[string]any{"min_correlation": 0.9})
		require.False(t, res.IsError, text(res))
		assert.Contains(t, text(res), `"size": 3`)
	})

	t.Run("nothing new", func(t *testing.T) {
		f.reader.On("GetCommitBatch", mock.Anything, "c2", 100).Return([]schema.Commit{}, nil)
		res := f.call(t, "analyze_repository", nil)
		require.False(t, res.IsError, text(res))
		assert.Contains(t, text(res), `"processed": 0`)
	})
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	t.Run("get_related_files missing path", func(t *testing.T) {
		res := f.call(t, "get_related_files", map[string]any{"path": ""})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, text(res), "path is required")
	})

	t.Run("get_related_files unknown file", func(t *testing.T) {
		res := f.call(t, "get_related_files", map[string]any{"path": "ghost.go"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "not in the correlation graph")
	})

	t.Run("get_related_files outside repository", func(t *testing.T) {
		res := f.call(t, "get_related_files", map[string]any{"path": "../other/x.go"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "outside repository")
	})

	t.Run("analyze_repository bad batch size", func(t *testing.T) {
		res := f.call(t, "analyze_repository", map[string]any{"batch_size": -5.0})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "batch_size must be between")
	})

	t.Run("get_clusters bad correlation", func(t *testing.T) {
		res := f.call(t, "get_clusters", map[string]any{"min_correlation": 1.5})
		assert.True(t, res.IsError)
	})

	t.Run("unknown repo_path", func(t *testing.T) {
		f.git.On("GetRepoRoot", mock.Anything, "/nowhere").Return("", assert.AnError)
		res := f.call(t, "get_top_correlations", map[string]any{"repo_path": "/nowhere"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "invalid repo_path")
	})

	t.Run("analysis failure", func(t *testing.T) {
		f.reader.On("GetCommitBatch", mock.Anything, "", 100).Return(nil, assert.AnError).Once()
		res := f.call(t, "analyze_repository", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "analysis failed")
	})
}

func TestMCPServerRepoPathOverride(t *testing.T) {
	f := newFixture(t)
	other := t.TempDir()
	f.git.On("GetRepoRoot", mock.Anything, other).Return(other, nil)

	res := f.call(t, "get_top_correlations", map[string]any{"repo_path": other})
	require.False(t, res.IsError, text(res))
	require.Len(t, f.opened, 1)
	assert.Equal(t, contract.GetGraphFilePath(other), f.opened[0])
	assert.Contains(t, text(res), `"correlations": []`)
}
