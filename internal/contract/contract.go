// Package contract provides interfaces and shared utilities for the corrgraph internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// GitClient defines the Git operations needed to walk repository history.
// This allows the history reader to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its standard output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Reference Resolution ---

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// ResolveCommit returns the full hash of ref, or ErrRefNotFound when ref
	// does not name a commit (including an unborn HEAD).
	ResolveCommit(ctx context.Context, repoPath string, ref string) (string, error)

	// --- History ---

	// ListCommits returns commits reachable from HEAD but not from exclude,
	// oldest first. An empty exclude lists the whole history.
	ListCommits(ctx context.Context, repoPath string, exclude string) ([]schema.Commit, error)

	// GetCommitChanges returns the paths that differ between parent and commit.
	// Renames are reported as a deletion plus an addition.
	GetCommitChanges(ctx context.Context, repoPath string, parent string, commit string) ([]schema.FileChange, error)

	// --- File State ---

	// ListFilesAtRef returns every tracked file in the tree of ref.
	ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error)
}

// HistoryReader yields not-yet-processed commits and their filtered change sets.
type HistoryReader interface {
	// GetCommitBatch returns up to batchSize commits strictly after startHash,
	// oldest first. An empty or unknown startHash starts from the first commit.
	GetCommitBatch(ctx context.Context, startHash string, batchSize int) ([]schema.Commit, error)

	// GetFilesInCommit returns the paths the commit added or modified, after
	// the exclusion policy. Deleted paths are included only when asked for.
	GetFilesInCommit(ctx context.Context, commit schema.Commit, includeDeleted bool) ([]string, error)

	// GetDeletedFiles returns every path the commit deleted relative to its
	// first parent, without filtering.
	GetDeletedFiles(ctx context.Context, commit schema.Commit) ([]string, error)
}

// GraphStore persists correlation graphs in their document form.
type GraphStore interface {
	// Load returns the persisted document, or an empty one when nothing has
	// been saved yet. A present but unreadable document is an error.
	Load(ctx context.Context) (*schema.GraphDocument, error)

	// Save replaces the persisted document.
	Save(ctx context.Context, doc *schema.GraphDocument) error

	// Clear removes the persisted document.
	Clear(ctx context.Context) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Location describes where documents are written, for display.
	Location() string

	// Close closes the underlying connection.
	Close() error
}

// ResultWriter renders reports built from a correlation graph.
// This allows the core logic to be tested without capturing stdout.
type ResultWriter interface {
	WriteCorrelations(results []schema.CorrelationResult, meta schema.ReportMeta, cfg *Config, duration time.Duration) error
	WriteRelated(path string, results []schema.CorrelationResult, meta schema.ReportMeta, cfg *Config, duration time.Duration) error
	WriteClusters(clusters []schema.ClusterResult, meta schema.ReportMeta, cfg *Config, duration time.Duration) error
}
