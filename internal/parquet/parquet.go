// Package parquet provides data structures and functions for exporting correlation
// graph data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"

	"github.com/egorpavlikhin/git-correlation-graph/core/graph"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
	"github.com/parquet-go/parquet-go"
)

// NodeRow represents a single file of the graph.
type NodeRow struct {
	// FilePath is the relative path to the file in the repository
	FilePath string `parquet:"file_path,snappy"`

	// CommitCount is the number of processed commits that touched the file
	CommitCount int32 `parquet:"commit_count,snappy"`

	// Degree is the number of files this file was ever committed with
	Degree int32 `parquet:"degree,snappy"`
}

// EdgeRow represents a co-occurrence pair together with its derived correlation.
type EdgeRow struct {
	SourcePath     string  `parquet:"source_path,snappy"`
	TargetPath     string  `parquet:"target_path,snappy"`
	CoCommitCount  int32   `parquet:"co_commit_count,snappy"`
	MinCommitCount int32   `parquet:"min_commit_count,snappy"`
	Correlation    float64 `parquet:"correlation,snappy"`
}

// CorrelationRow represents one line of a ranked correlation report.
type CorrelationRow struct {
	Rank        int32   `parquet:"rank,snappy"`
	Source      string  `parquet:"source,snappy"`
	Target      string  `parquet:"target,snappy"`
	Correlation float64 `parquet:"correlation,snappy"`
	CoCommits   int32   `parquet:"co_commits,snappy"`
	MinCommits  int32   `parquet:"min_commits,snappy"`
	Level       string  `parquet:"level,snappy"`
}

// ClusterRow represents membership of one file in one cluster.
type ClusterRow struct {
	ClusterID   int32  `parquet:"cluster_id,snappy"`
	ClusterSize int32  `parquet:"cluster_size,snappy"`
	FilePath    string `parquet:"file_path,snappy"`
	CommitCount int32  `parquet:"commit_count,snappy"`
}

// writeRows writes rows to outputPath using the schema inferred from T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteNodesParquet writes a slice of NodeRow structs to a Parquet file.
func WriteNodesParquet(data []NodeRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteEdgesParquet writes a slice of EdgeRow structs to a Parquet file.
func WriteEdgesParquet(data []EdgeRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteCorrelationsParquet writes a slice of CorrelationRow structs to a Parquet file.
func WriteCorrelationsParquet(data []CorrelationRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteClustersParquet writes a slice of ClusterRow structs to a Parquet file.
func WriteClustersParquet(data []ClusterRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertNodes converts every node of g, sorted by path.
func ConvertNodes(g *graph.Graph) []NodeRow {
	nodes := g.Nodes()
	result := make([]NodeRow, len(nodes))
	for i, n := range nodes {
		result[i] = NodeRow{
			FilePath:    n.FilePath,
			CommitCount: int32(n.CommitCount),
			Degree:      int32(n.Degree()),
		}
	}
	return result
}

// ConvertEdges converts every edge of g in ranked order.
func ConvertEdges(g *graph.Graph) []EdgeRow {
	edges := g.Edges()
	result := make([]EdgeRow, len(edges))
	for i, e := range edges {
		result[i] = EdgeRow{
			SourcePath:     e.SourcePath,
			TargetPath:     e.TargetPath,
			CoCommitCount:  int32(e.CoCommitCount),
			MinCommitCount: int32(e.MinCommitCount()),
			Correlation:    e.Correlation(),
		}
	}
	return result
}

// ConvertCorrelationResults converts report results for Parquet export.
func ConvertCorrelationResults(results []schema.CorrelationResult) []CorrelationRow {
	result := make([]CorrelationRow, len(results))
	for i, r := range results {
		result[i] = CorrelationRow{
			Rank:        int32(r.Rank),
			Source:      r.Source,
			Target:      r.Target,
			Correlation: r.Correlation,
			CoCommits:   int32(r.CoCommits),
			MinCommits:  int32(r.MinCommits),
			Level:       string(r.Level),
		}
	}
	return result
}

// ConvertClusterResults flattens clusters into one row per member file.
func ConvertClusterResults(clusters []schema.ClusterResult) []ClusterRow {
	var result []ClusterRow
	for _, c := range clusters {
		for _, f := range c.Files {
			result = append(result, ClusterRow{
				ClusterID:   int32(c.ID),
				ClusterSize: int32(c.Size),
				FilePath:    f.Path,
				CommitCount: int32(f.CommitCount),
			})
		}
	}
	return result
}

// ExportPaths returns the node and edge file names for an export base path.
// A trailing ".parquet" on base is dropped first.
func ExportPaths(base string) (nodesPath, edgesPath string) {
	base = strings.TrimSuffix(base, ".parquet")
	return base + ".nodes.parquet", base + ".edges.parquet"
}

// ExportGraph writes the nodes and edges of g next to each other.
func ExportGraph(g *graph.Graph, base string) (nodesPath, edgesPath string, err error) {
	nodesPath, edgesPath = ExportPaths(base)
	if err := WriteNodesParquet(ConvertNodes(g), nodesPath); err != nil {
		return "", "", fmt.Errorf("failed to export nodes: %w", err)
	}
	if err := WriteEdgesParquet(ConvertEdges(g), edgesPath); err != nil {
		return "", "", fmt.Errorf("failed to export edges: %w", err)
	}
	return nodesPath, edgesPath, nil
}
