// Package core has the incremental correlation engine and the entry points
// that drive it for each command.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/core/graph"
	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/internal/history"
	"github.com/egorpavlikhin/git-correlation-graph/internal/outwriter"
	"github.com/egorpavlikhin/git-correlation-graph/internal/parquet"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// ErrFileNotInGraph is returned when a file has never been seen by the analysis.
var ErrFileNotInGraph = errors.New("file is not in the correlation graph")

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, store contract.GraphStore) error

// NewHistoryReader builds the git-backed reader for the repository in cfg.
func NewHistoryReader(cfg *contract.Config) contract.HistoryReader {
	return history.NewGitHistoryReader(contract.NewLocalGitClient(), cfg.RepoPath, history.NewFileFilterFromConfig(cfg))
}

// quietForMachineOutput suppresses progress headers when structured output
// goes to stdout, so the stream stays parseable.
func quietForMachineOutput(ctx context.Context, cfg *contract.Config) context.Context {
	if cfg.Output != schema.TextOut && cfg.OutputFile == "" {
		return WithSuppressHeader(ctx)
	}
	return ctx
}

// ExecuteAnalyze processes the next batch of commits, persists the graph and
// prints the strongest correlations. It serves as the entry point of 'analyze'.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, store contract.GraphStore) error {
	start := time.Now()
	ctx = quietForMachineOutput(ctx, cfg)
	analyzer := NewCorrelationAnalyzer(cfg, NewHistoryReader(cfg), store, outwriter.NewOutWriter())
	g, _, err := analyzer.Analyze(ctx)
	if err != nil {
		return err
	}
	return analyzer.DisplayTopCorrelations(g, cfg.ResultLimit, time.Since(start))
}

// RunAnalyze processes the next batch of commits and returns a description of the run.
func RunAnalyze(ctx context.Context, cfg *contract.Config, reader contract.HistoryReader, store contract.GraphStore) (schema.AnalysisSummary, error) {
	analyzer := NewCorrelationAnalyzer(cfg, reader, store, outwriter.NewOutWriter())
	_, summary, err := analyzer.AnalyzeWithSummary(ctx)
	return summary, err
}

// ExecuteTop prints the strongest correlations of the persisted graph without
// reading any history.
func ExecuteTop(ctx context.Context, cfg *contract.Config, store contract.GraphStore) error {
	start := time.Now()
	results, meta, err := RunTop(ctx, cfg, store)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCorrelations(results, meta, cfg, time.Since(start))
}

// RunTop returns the strongest correlations of the persisted graph.
func RunTop(ctx context.Context, cfg *contract.Config, store contract.GraphStore) ([]schema.CorrelationResult, schema.ReportMeta, error) {
	g, err := LoadGraph(ctx, store)
	if err != nil {
		return nil, schema.ReportMeta{}, err
	}
	results := BuildTopResults(g, cfg.ResultLimit, cfg.MinCommits)
	meta := buildReportMeta(g, fmt.Sprintf("🔗 Top %d file correlations", cfg.ResultLimit))
	return results, meta, nil
}

// ExecuteRelated prints the files most often committed with cfg.RelatedPath.
func ExecuteRelated(ctx context.Context, cfg *contract.Config, store contract.GraphStore) error {
	start := time.Now()
	results, meta, err := RunRelated(ctx, cfg, store, cfg.RelatedPath)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteRelated(cfg.RelatedPath, results, meta, cfg, time.Since(start))
}

// RunRelated returns the ranked neighbours of path.
func RunRelated(ctx context.Context, cfg *contract.Config, store contract.GraphStore, path string) ([]schema.CorrelationResult, schema.ReportMeta, error) {
	if path == "" {
		return nil, schema.ReportMeta{}, errors.New("a file path is required")
	}
	g, err := LoadGraph(ctx, store)
	if err != nil {
		return nil, schema.ReportMeta{}, err
	}
	if _, ok := g.Node(path); !ok {
		return nil, schema.ReportMeta{}, fmt.Errorf("%w: %s (run 'corrgraph analyze' first or check the path)", ErrFileNotInGraph, path)
	}
	results := BuildRelatedResults(g, path, cfg.ResultLimit, cfg.MinCommits)
	meta := buildReportMeta(g, fmt.Sprintf("🔗 Files changed together with %s", path))
	return results, meta, nil
}

// ExecuteClusters prints groups of files that are strongly correlated with each other.
func ExecuteClusters(ctx context.Context, cfg *contract.Config, store contract.GraphStore) error {
	start := time.Now()
	clusters, meta, err := RunClusters(ctx, cfg, store)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteClusters(clusters, meta, cfg, time.Since(start))
}

// RunClusters returns the clusters of the persisted graph.
func RunClusters(ctx context.Context, cfg *contract.Config, store contract.GraphStore) ([]schema.ClusterResult, schema.ReportMeta, error) {
	g, err := LoadGraph(ctx, store)
	if err != nil {
		return nil, schema.ReportMeta{}, err
	}
	clusters := BuildClusterResults(g, clusterOptions(cfg))
	meta := buildReportMeta(g, fmt.Sprintf("🧩 Clusters (correlation ≥ %s, commits ≥ %d)",
		contract.FormatPercent(cfg.ClusterMinCorrelation, 0), cfg.ClusterMinCommits))
	return clusters, meta, nil
}

// clusterOptions maps the configured thresholds onto graph options.
func clusterOptions(cfg *contract.Config) graph.ClusterOptions {
	return graph.ClusterOptions{
		MinCommits:     cfg.ClusterMinCommits,
		MaxConnections: cfg.ClusterMaxConnections,
		MinCorrelation: cfg.ClusterMinCorrelation,
	}
}

// ExecuteGraphExport writes the persisted graph as a pair of Parquet files.
func ExecuteGraphExport(ctx context.Context, cfg *contract.Config, store contract.GraphStore) error {
	if cfg.OutputFile == "" {
		return errors.New("graph export requires --output-file")
	}
	g, err := LoadGraph(ctx, store)
	if err != nil {
		return err
	}
	nodesPath, edgesPath, err := parquet.ExportGraph(g, cfg.OutputFile)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d nodes to %s\n", g.NodeCount(), nodesPath)
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d edges to %s\n", g.EdgeCount(), edgesPath)
	return nil
}
