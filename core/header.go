package core

import (
	"fmt"
	"path/filepath"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// DateTimeFormat is how commit dates are shown in headers.
const DateTimeFormat = "2006-01-02 15:04:05 -0700"

// repoName returns a short display name for a repository root.
func repoName(repoPath string) string {
	name := filepath.Base(repoPath)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "current"
	}
	return name
}

// logAnalysisHeader prints a concise, 2-line header before history is read.
func logAnalysisHeader(cfg *contract.Config, location string) {
	fmt.Printf("🔎 Repo: %s (Batch size: %d)\n", repoName(cfg.RepoPath), cfg.BatchSize)
	fmt.Printf("🗄️  Graph: %s (%s)\n", location, cfg.StoreBackend)
}

// logAnalysisSummary prints the outcome of one incremental run.
func logAnalysisSummary(s schema.AnalysisSummary, location string) {
	if s.Processed == 0 {
		fmt.Printf("✅ No new commits to process (total processed: %d)\n", s.TotalCommits)
		return
	}
	fmt.Printf("📦 Processed %d commits (total: %d, files: %d, edges: %d)\n",
		s.Processed, s.TotalCommits, s.TotalFiles, s.TotalEdges)
	if s.Saved {
		fmt.Printf("💾 Graph saved to %s\n", location)
	}
	fmt.Printf("🔖 Last processed commit: %s (%s)\n", s.LastCommitHash, s.LastCommitDate.Format(DateTimeFormat))
}
