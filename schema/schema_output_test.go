package schema_test

import (
	"testing"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetCorrelationLevel(t *testing.T) {
	tests := []struct {
		name        string
		correlation float64
		expected    schema.CorrelationLevel
	}{
		{"Perfect", 1.0, schema.HighLevel},
		{"High Lower", 0.8, schema.HighLevel},
		{"Medium Upper", 0.79, schema.MediumLevel},
		{"Medium Lower", 0.5, schema.MediumLevel},
		{"Low Upper", 0.49, schema.LowLevel},
		{"Zero", 0.0, schema.LowLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.GetCorrelationLevel(tt.correlation))
		})
	}
}

func TestEnrichCorrelation(t *testing.T) {
	r := schema.EnrichCorrelation(3, schema.CorrelationResult{Source: "a", Target: "b", Correlation: 0.6})
	assert.Equal(t, 3, r.Rank)
	assert.Equal(t, schema.MediumLevel, r.Level)
	assert.Equal(t, "a", r.Source)
}

func TestStoreBackendIsSQL(t *testing.T) {
	assert.False(t, schema.JSONBackend.IsSQL())
	assert.True(t, schema.SQLiteBackend.IsSQL())
	assert.True(t, schema.MySQLBackend.IsSQL())
	assert.True(t, schema.PostgreSQLBackend.IsSQL())
	assert.False(t, schema.StoreBackend("redis").IsSQL())
}

func TestCommitHelpers(t *testing.T) {
	root := schema.Commit{Hash: "0123456789abcdef", AuthorTime: time.Unix(0, 0)}
	assert.True(t, root.IsRoot())
	assert.Equal(t, "", root.FirstParent())
	assert.Equal(t, "01234567", root.ShortHash())

	merge := schema.Commit{Hash: "abc", Parents: []string{"p1", "p2"}}
	assert.False(t, merge.IsRoot())
	assert.Equal(t, "p1", merge.FirstParent())
	assert.Equal(t, "abc", merge.ShortHash())
}

func TestGraphDocumentEdgeCount(t *testing.T) {
	doc := schema.NewGraphDocument()
	assert.Equal(t, 0, doc.EdgeCount())
	assert.NotNil(t, doc.Nodes)

	doc.Nodes = append(doc.Nodes,
		schema.NodeRecord{FilePath: "a", CommitCount: 2, Edges: []schema.EdgeRecord{
			{SourceFilePath: "a", TargetFilePath: "b", CoCommitCount: 1},
			{SourceFilePath: "a", TargetFilePath: "c", CoCommitCount: 1},
		}},
		schema.NodeRecord{FilePath: "b", CommitCount: 1},
	)
	assert.Equal(t, 2, doc.EdgeCount())
}
