package core

import (
	"context"
	"fmt"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/core/graph"
	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// CorrelationAnalyzer runs incremental batches against a persisted graph.
// Each call resumes from the checkpoint stored with the graph.
type CorrelationAnalyzer struct {
	cfg       *contract.Config
	processor *CommitProcessor
	store     contract.GraphStore
	writer    contract.ResultWriter
}

// NewCorrelationAnalyzer wires an analyzer for the repository in cfg.
func NewCorrelationAnalyzer(cfg *contract.Config, reader contract.HistoryReader, store contract.GraphStore, writer contract.ResultWriter) *CorrelationAnalyzer {
	return &CorrelationAnalyzer{
		cfg:       cfg,
		processor: NewCommitProcessor(reader),
		store:     store,
		writer:    writer,
	}
}

// Analyze loads the graph, applies up to one batch of new commits and saves
// the graph when anything was applied. No graph is returned with an error.
func (a *CorrelationAnalyzer) Analyze(ctx context.Context) (*graph.Graph, int, error) {
	g, summary, err := a.AnalyzeWithSummary(ctx)
	if err != nil {
		return nil, 0, err
	}
	return g, summary.Processed, nil
}

// AnalyzeWithSummary is Analyze with a description of the run.
func (a *CorrelationAnalyzer) AnalyzeWithSummary(ctx context.Context) (*graph.Graph, schema.AnalysisSummary, error) {
	start := time.Now()
	quiet := shouldSuppressHeader(ctx)
	if !quiet {
		logAnalysisHeader(a.cfg, a.store.Location())
	}

	g, err := LoadGraph(ctx, a.store)
	if err != nil {
		return nil, schema.AnalysisSummary{}, err
	}

	processed, err := a.processor.ProcessBatch(ctx, g.State.LastProcessedCommitHash, a.cfg.BatchSize, g)
	if err != nil {
		return nil, schema.AnalysisSummary{}, err
	}

	saved := false
	if processed > 0 {
		if err := SaveGraph(ctx, a.store, g); err != nil {
			return nil, schema.AnalysisSummary{}, err
		}
		saved = true
	}

	summary := schema.AnalysisSummary{
		RepoPath:       a.cfg.RepoPath,
		Processed:      processed,
		TotalCommits:   g.State.TotalCommitsProcessed,
		TotalFiles:     g.NodeCount(),
		TotalEdges:     g.EdgeCount(),
		LastCommitHash: g.State.LastProcessedCommitHash,
		LastCommitDate: g.State.LastProcessedCommitDate,
		Saved:          saved,
		Duration:       time.Since(start).Round(time.Millisecond).String(),
	}
	if !quiet {
		logAnalysisSummary(summary, a.store.Location())
	}
	return g, summary, nil
}

// DisplayTopCorrelations renders the count strongest pairs of g. It never
// modifies the graph.
func (a *CorrelationAnalyzer) DisplayTopCorrelations(g *graph.Graph, count int, duration time.Duration) error {
	results := BuildTopResults(g, count, a.cfg.MinCommits)
	meta := buildReportMeta(g, fmt.Sprintf("\n🔗 Top %d file correlations:", count))
	return a.writer.WriteCorrelations(results, meta, a.cfg, duration)
}

// LoadGraph reads the persisted graph from store, or an empty graph when
// nothing has been saved yet.
func LoadGraph(ctx context.Context, store contract.GraphStore) (*graph.Graph, error) {
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph from %s: %w", store.Location(), err)
	}
	g, err := graph.FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("malformed graph in %s: %w", store.Location(), err)
	}
	return g, nil
}

// SaveGraph persists g to store.
func SaveGraph(ctx context.Context, store contract.GraphStore, g *graph.Graph) error {
	if err := store.Save(ctx, g.Document()); err != nil {
		return fmt.Errorf("failed to save graph to %s: %w", store.Location(), err)
	}
	return nil
}
