package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusters(t *testing.T) {
	g := New()
	// Group one: api.go, api_test.go, handler.go
	commit(g, "api.go", "api_test.go")
	commit(g, "api.go", "api_test.go", "handler.go")
	commit(g, "handler.go", "api.go")
	// Group two: ui.css, ui.js
	commit(g, "ui.css", "ui.js")
	commit(g, "ui.css", "ui.js")
	// Noise: single-commit file paired once
	commit(g, "once.txt", "ui.js")

	clusters := g.Clusters(DefaultClusterOptions())
	require.Len(t, clusters, 2)

	first := clusters[0]
	require.Len(t, first.Files, 3)
	assert.Equal(t, "api.go", first.Files[0].FilePath)
	assert.Equal(t, "api_test.go", first.Files[1].FilePath)
	assert.Equal(t, "handler.go", first.Files[2].FilePath)
	assert.Len(t, first.Connections, 3)
	for i := 1; i < len(first.Connections); i++ {
		assert.GreaterOrEqual(t, first.Connections[i-1].Correlation(), first.Connections[i].Correlation())
	}

	second := clusters[1]
	require.Len(t, second.Files, 2)
	assert.Equal(t, "ui.css", second.Files[0].FilePath)
	assert.Equal(t, "ui.js", second.Files[1].FilePath)
	for _, f := range second.Files {
		assert.NotEqual(t, "once.txt", f.FilePath)
	}
}

func TestClustersRespectsThresholds(t *testing.T) {
	g := New()
	commit(g, "a", "b")
	commit(g, "a", "b")
	commit(g, "a")
	commit(g, "a")
	commit(g, "a")
	commit(g, "a")
	commit(g, "a")
	commit(g, "a")
	commit(g, "b")
	commit(g, "b")
	commit(g, "b")
	commit(g, "b")
	commit(g, "b")
	commit(g, "b")

	assert.Empty(t, g.Clusters(DefaultClusterOptions()), "2/8 is below the minimum correlation")

	opts := DefaultClusterOptions()
	opts.MinCorrelation = 0.2
	assert.Len(t, g.Clusters(opts), 1)

	opts.MinCommits = 100
	assert.Empty(t, g.Clusters(opts))
}

func TestClustersSkipsHubs(t *testing.T) {
	g := New()
	for _, leaf := range []string{"l1", "l2", "l3"} {
		commit(g, "hub", leaf)
		commit(g, "hub", leaf)
	}

	opts := DefaultClusterOptions()
	opts.MaxConnections = 2
	assert.Empty(t, g.Clusters(opts), "hub exceeds the connection limit and leaves are isolated")

	opts.MaxConnections = 0
	clusters := g.Clusters(opts)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Files, 4)
}
