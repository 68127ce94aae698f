package core

import (
	"context"
	"testing"

	"github.com/egorpavlikhin/git-correlation-graph/core/graph"
	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resultsGraph: a/b always together (2 commits), a/c once, rare/a once.
func resultsGraph(t *testing.T) (*graph.Graph, *memoryStore) {
	t.Helper()
	h := newFakeHistory(
		step{files: []string{"a", "b"}},
		step{files: []string{"a", "b"}},
		step{files: []string{"a", "c"}},
		step{files: []string{"c"}},
		step{files: []string{"rare", "a"}},
	)
	store := &memoryStore{}
	g, _, err := NewCorrelationAnalyzer(analyzerConfig(10), h, store, &contract.MockResultWriter{}).Analyze(quietCtx())
	require.NoError(t, err)
	return g, store
}

func TestBuildTopResults(t *testing.T) {
	g, _ := resultsGraph(t)

	results := BuildTopResults(g, 10, 1)
	require.Len(t, results, 3)
	assert.Equal(t, schema.CorrelationResult{
		Rank: 1, Source: "a", Target: "b", Correlation: 1, CoCommits: 2, MinCommits: 2, Level: schema.HighLevel,
	}, results[0])
	assert.Equal(t, "rare", results[1].Source)
	assert.Equal(t, 2, results[1].Rank)
	assert.Equal(t, "c", results[2].Target)
	assert.Equal(t, schema.MediumLevel, results[2].Level)

	t.Run("min commits filters weak endpoints", func(t *testing.T) {
		filtered := BuildTopResults(g, 10, 2)
		require.Len(t, filtered, 2)
		assert.Equal(t, "b", filtered[0].Target)
		assert.Equal(t, "c", filtered[1].Target)
		assert.Equal(t, 2, filtered[1].Rank)
	})

	t.Run("limit", func(t *testing.T) {
		assert.Len(t, BuildTopResults(g, 1, 1), 1)
		assert.Empty(t, BuildTopResults(g, 0, 1))
	})
}

func TestBuildRelatedResults(t *testing.T) {
	g, _ := resultsGraph(t)

	results := BuildRelatedResults(g, "c", 10, 1)
	require.Len(t, results, 1)
	assert.Equal(t, "c", results[0].Source)
	assert.Equal(t, "a", results[0].Target)
	assert.InDelta(t, 0.5, results[0].Correlation, 1e-9)

	results = BuildRelatedResults(g, "a", 2, 1)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "a", r.Source)
	}
	assert.Equal(t, []string{"b", "rare"}, []string{results[0].Target, results[1].Target})

	assert.Empty(t, BuildRelatedResults(g, "missing", 10, 1))
}

func TestBuildClusterResults(t *testing.T) {
	g, _ := resultsGraph(t)

	clusters := BuildClusterResults(g, graph.ClusterOptions{MinCommits: 2, MinCorrelation: 0.5})
	require.Len(t, clusters, 1)
	assert.Equal(t, 1, clusters[0].ID)
	assert.Equal(t, 3, clusters[0].Size)
	assert.Equal(t, []schema.ClusterFile{{Path: "a", CommitCount: 4}, {Path: "b", CommitCount: 2}, {Path: "c", CommitCount: 2}}, clusters[0].Files)
	require.Len(t, clusters[0].Connections, 2)
	assert.Equal(t, "b", clusters[0].Connections[0].Target)

	assert.Empty(t, BuildClusterResults(g, graph.ClusterOptions{MinCommits: 2, MinCorrelation: 1.1}))
}

func TestRunCommandsAgainstStore(t *testing.T) {
	_, store := resultsGraph(t)
	cfg := analyzerConfig(10)
	cfg.ResultLimit = 2
	cfg.ClusterMinCommits = 2
	cfg.ClusterMinCorrelation = 0.5
	ctx := context.Background()

	top, meta, err := RunTop(ctx, cfg, store)
	require.NoError(t, err)
	assert.Len(t, top, 2)
	assert.Equal(t, 4, meta.TotalFiles)
	assert.Equal(t, 5, meta.TotalCommits)
	assert.Equal(t, "c5", meta.LastCommitHash)

	related, _, err := RunRelated(ctx, cfg, store, "b")
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "a", related[0].Target)

	_, _, err = RunRelated(ctx, cfg, store, "nope.go")
	require.ErrorIs(t, err, ErrFileNotInGraph)

	_, _, err = RunRelated(ctx, cfg, store, "")
	require.Error(t, err)

	clusters, _, err := RunClusters(ctx, cfg, store)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
}

func TestRunTopEmptyStore(t *testing.T) {
	results, meta, err := RunTop(context.Background(), analyzerConfig(10), &memoryStore{})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, meta.TotalFiles)
}

func TestExecuteGraphExportRequiresOutputFile(t *testing.T) {
	err := ExecuteGraphExport(context.Background(), analyzerConfig(10), &memoryStore{})
	require.Error(t, err)
}

func TestWithSuppressHeader(t *testing.T) {
	assert.False(t, shouldSuppressHeader(context.Background()))
	assert.True(t, shouldSuppressHeader(WithSuppressHeader(context.Background())))
}

func TestQuietForMachineOutput(t *testing.T) {
	cfg := &contract.Config{Output: schema.JSONOut}
	assert.True(t, shouldSuppressHeader(quietForMachineOutput(context.Background(), cfg)))

	cfg.OutputFile = "out.json"
	assert.False(t, shouldSuppressHeader(quietForMachineOutput(context.Background(), cfg)))

	cfg = &contract.Config{Output: schema.TextOut}
	assert.False(t, shouldSuppressHeader(quietForMachineOutput(context.Background(), cfg)))
}
