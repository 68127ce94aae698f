package core

import (
	"context"
	"fmt"

	"github.com/egorpavlikhin/git-correlation-graph/core/graph"
	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// CommitProcessor applies commits from a history reader to a graph.
type CommitProcessor struct {
	reader contract.HistoryReader
}

// NewCommitProcessor creates a processor reading from reader.
func NewCommitProcessor(reader contract.HistoryReader) *CommitProcessor {
	return &CommitProcessor{reader: reader}
}

// ProcessCommit applies one commit to g. Deleted paths are removed first, then
// every remaining path is counted once and every unordered pair of paths gets
// one co-commit. The checkpoint advances even when nothing was countable.
//
// Both reader calls complete before g is touched, so a reader error leaves the
// graph as it was. Pair counting is quadratic in the commit's file count.
func (p *CommitProcessor) ProcessCommit(ctx context.Context, commit schema.Commit, g *graph.Graph) error {
	files, err := p.reader.GetFilesInCommit(ctx, commit, false)
	if err != nil {
		return err
	}
	var deleted []string
	if !commit.IsRoot() {
		deleted, err = p.reader.GetDeletedFiles(ctx, commit)
		if err != nil {
			return err
		}
	}

	for _, path := range deleted {
		g.RemoveNode(path)
	}

	files = dedupe(files)
	for _, path := range files {
		g.GetOrCreateNode(path).CommitCount++
	}
	for i := range files {
		for j := i + 1; j < len(files); j++ {
			g.GetOrCreateEdge(files[i], files[j]).CoCommitCount++
		}
	}

	g.State.Advance(commit.Hash, commit.AuthorTime)
	return nil
}

// ProcessBatch applies up to maxCount commits after startHash, oldest first,
// and returns how many were applied. On failure the count applied so far is
// returned with the error.
func (p *CommitProcessor) ProcessBatch(ctx context.Context, startHash string, maxCount int, g *graph.Graph) (int, error) {
	commits, err := p.reader.GetCommitBatch(ctx, startHash, maxCount)
	if err != nil {
		return 0, fmt.Errorf("failed to read commit batch: %w", err)
	}

	processed := 0
	for _, c := range commits {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		if err := p.ProcessCommit(ctx, c, g); err != nil {
			return processed, fmt.Errorf("failed to process commit %s: %w", c.ShortHash(), err)
		}
		processed++
	}
	return processed, nil
}

// dedupe drops repeated paths, keeping the first occurrence.
func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
