package core

import (
	"github.com/egorpavlikhin/git-correlation-graph/core/graph"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// toResult converts a ranked edge into a presentation record.
func toResult(rank int, e *graph.Edge) schema.CorrelationResult {
	return schema.EnrichCorrelation(rank, schema.CorrelationResult{
		Source:      e.SourcePath,
		Target:      e.TargetPath,
		Correlation: e.Correlation(),
		CoCommits:   e.CoCommitCount,
		MinCommits:  e.MinCommitCount(),
	})
}

// orient flips r so that path is reported as the source.
func orient(path string, r schema.CorrelationResult) schema.CorrelationResult {
	if r.Source != path {
		r.Source, r.Target = r.Target, r.Source
	}
	return r
}

// selectEdges keeps at most limit ranked edges whose weaker endpoint has at
// least minCommits commits. A minCommits of 1 or less keeps everything.
func selectEdges(ranked []*graph.Edge, limit, minCommits int) []*graph.Edge {
	out := make([]*graph.Edge, 0, min(limit, len(ranked)))
	for _, e := range ranked {
		if len(out) >= limit {
			break
		}
		if e.MinCommitCount() < minCommits {
			continue
		}
		out = append(out, e)
	}
	return out
}

// BuildTopResults returns the top limit correlations of g.
func BuildTopResults(g *graph.Graph, limit, minCommits int) []schema.CorrelationResult {
	if limit <= 0 {
		return []schema.CorrelationResult{}
	}
	var edges []*graph.Edge
	if minCommits <= 1 {
		edges = g.TopCorrelations(limit)
	} else {
		edges = selectEdges(g.Edges(), limit, minCommits)
	}
	results := make([]schema.CorrelationResult, len(edges))
	for i, e := range edges {
		results[i] = toResult(i+1, e)
	}
	return results
}

// BuildRelatedResults returns the top limit neighbours of path, with path as
// the source of every result.
func BuildRelatedResults(g *graph.Graph, path string, limit, minCommits int) []schema.CorrelationResult {
	if limit <= 0 {
		return []schema.CorrelationResult{}
	}
	edges := selectEdges(g.Neighbors(path), limit, minCommits)
	results := make([]schema.CorrelationResult, len(edges))
	for i, e := range edges {
		results[i] = orient(path, toResult(i+1, e))
	}
	return results
}

// BuildClusterResults returns the clusters of g numbered from 1.
func BuildClusterResults(g *graph.Graph, opts graph.ClusterOptions) []schema.ClusterResult {
	clusters := g.Clusters(opts)
	results := make([]schema.ClusterResult, len(clusters))
	for i, c := range clusters {
		files := make([]schema.ClusterFile, len(c.Files))
		for j, f := range c.Files {
			files[j] = schema.ClusterFile{Path: f.FilePath, CommitCount: f.CommitCount}
		}
		conns := make([]schema.ClusterConnection, len(c.Connections))
		for j, e := range c.Connections {
			conns[j] = schema.ClusterConnection{
				Source:      e.SourcePath,
				Target:      e.TargetPath,
				Correlation: e.Correlation(),
				CoCommits:   e.CoCommitCount,
			}
		}
		results[i] = schema.ClusterResult{
			ID:          i + 1,
			Size:        len(files),
			Files:       files,
			Connections: conns,
		}
	}
	return results
}

// buildReportMeta collects graph-wide figures for a report footer.
func buildReportMeta(g *graph.Graph, title string) schema.ReportMeta {
	return schema.ReportMeta{
		Title:          title,
		TotalFiles:     g.NodeCount(),
		TotalEdges:     g.EdgeCount(),
		TotalCommits:   g.State.TotalCommitsProcessed,
		LastCommitHash: g.State.LastProcessedCommitHash,
	}
}
