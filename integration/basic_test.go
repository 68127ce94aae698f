//go:build basic

// Package integration contains integration tests for corrgraph.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type correlationRow struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Correlation float64 `json:"correlation"`
	CoCommits   int     `json:"co_commits"`
	MinCommits  int     `json:"min_commits"`
}

func parseRows(t *testing.T, out string) []correlationRow {
	t.Helper()
	var rows []correlationRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
	return rows
}

func TestAnalyzeThenQueryJSONStore(t *testing.T) {
	repo := fixtureRepo(t)

	out, err := runCorrgraph(t, repo, nil, "analyze", "--output", "json")
	require.NoError(t, err)
	rows := parseRows(t, out)
	require.NotEmpty(t, rows)
	assert.Equal(t, "src/a.go", rows[0].Source)
	assert.Equal(t, "src/b.go", rows[0].Target)
	assert.Equal(t, 3, rows[0].CoCommits)
	assert.InDelta(t, 1.0, rows[0].Correlation, 1e-9)

	for _, r := range rows {
		assert.NotEqual(t, "README.md", r.Source, "root files are excluded by default")
		assert.NotEqual(t, "README.md", r.Target, "root files are excluded by default")
	}
	_, err = os.Stat(filepath.Join(repo, "correlation-graph.json"))
	require.NoError(t, err)

	out, err = runCorrgraph(t, repo, nil, "related", "src/d.go", "--output", "json")
	require.NoError(t, err)
	related := parseRows(t, out)
	require.NotEmpty(t, related)
	for _, r := range related {
		assert.Equal(t, "src/d.go", r.Source)
	}

	out, err = runCorrgraph(t, repo, nil, "top", "--limit", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "src/a.go")

	_, err = runCorrgraph(t, repo, nil, "clusters")
	require.NoError(t, err)

	out, err = runCorrgraph(t, repo, nil, "graph", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Commits Processed: 4")

	_, err = runCorrgraph(t, repo, nil, "graph", "export", "--output-file", filepath.Join(repo, "export"))
	require.NoError(t, err)
	for _, name := range []string{"export.nodes.parquet", "export.edges.parquet"} {
		_, err = os.Stat(filepath.Join(repo, name))
		assert.NoError(t, err, name)
	}

	_, err = runCorrgraph(t, repo, nil, "graph", "clear")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(repo, "correlation-graph.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestIncrementalRunsMatchSingleRun(t *testing.T) {
	repo := fixtureRepo(t)
	split := filepath.Join(t.TempDir(), "split.json")
	whole := filepath.Join(t.TempDir(), "whole.json")

	for range 2 {
		_, err := runCorrgraph(t, repo, nil, "analyze", "--batch-size", "2", "--graph-file", split, "--output", "json")
		require.NoError(t, err)
	}
	_, err := runCorrgraph(t, repo, nil, "analyze", "--graph-file", whole, "--output", "json")
	require.NoError(t, err)

	a, err := os.ReadFile(split)
	require.NoError(t, err)
	b, err := os.ReadFile(whole)
	require.NoError(t, err)
	assert.JSONEq(t, string(b), string(a))
}

func TestSQLiteStore(t *testing.T) {
	repo := fixtureRepo(t)
	env := []string{"CORRGRAPH_STORE=sqlite", "CORRGRAPH_STORE_CONNECT=" + filepath.Join(t.TempDir(), "graphs.db")}

	_, err := runCorrgraph(t, repo, env, "graph", "migrate")
	require.NoError(t, err)

	_, err = runCorrgraph(t, repo, env, "analyze", "--batch-size", "3")
	require.NoError(t, err)
	out, err := runCorrgraph(t, repo, env, "analyze", "--output", "json")
	require.NoError(t, err)
	rows := parseRows(t, out)
	require.NotEmpty(t, rows)
	assert.Equal(t, 3, rows[0].CoCommits)

	out, err = runCorrgraph(t, repo, env, "graph", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Store Backend: sqlite")
	assert.Contains(t, out, "Commits Processed: 4")

	_, err = runCorrgraph(t, repo, env, "graph", "clear")
	require.NoError(t, err)
}

func TestInvalidInput(t *testing.T) {
	repo := fixtureRepo(t)

	_, err := runCorrgraph(t, repo, nil, "analyze", "--batch-size", "0")
	assert.Error(t, err)

	_, err = runCorrgraph(t, repo, nil, "top", "--output", "parquet")
	assert.Error(t, err, "parquet needs an output file")

	_, err = runCorrgraph(t, repo, nil, "related", "src/nope.go")
	assert.Error(t, err)
}
