package history

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// ErrInvalidBatchSize is returned when a batch of fewer than one commit is requested.
var ErrInvalidBatchSize = errors.New("batch size must be greater than 0")

// GitHistoryReader implements contract.HistoryReader on top of a GitClient.
type GitHistoryReader struct {
	client   contract.GitClient
	repoPath string
	filter   *FileFilter

	// The processor asks for changed and deleted files of the same commit
	// back to back, so the most recent diff is kept.
	mu         sync.Mutex
	cachedHash string
	cached     []schema.FileChange
}

var _ contract.HistoryReader = &GitHistoryReader{} // Compile-time check

// NewGitHistoryReader creates a reader for the repository at repoPath.
func NewGitHistoryReader(client contract.GitClient, repoPath string, filter *FileFilter) *GitHistoryReader {
	if filter == nil {
		filter = NewPermissiveFileFilter()
	}
	return &GitHistoryReader{client: client, repoPath: repoPath, filter: filter}
}

// GetCommitBatch implements the contract.HistoryReader interface.
func (r *GitHistoryReader) GetCommitBatch(ctx context.Context, startHash string, batchSize int) ([]schema.Commit, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w (received %d)", ErrInvalidBatchSize, batchSize)
	}

	if _, err := r.client.ResolveCommit(ctx, r.repoPath, "HEAD"); err != nil {
		if errors.Is(err, contract.ErrRefNotFound) {
			return []schema.Commit{}, nil
		}
		return nil, fmt.Errorf("failed to read HEAD: %w", err)
	}

	exclude := ""
	if startHash != "" {
		resolved, err := r.client.ResolveCommit(ctx, r.repoPath, startHash)
		switch {
		case err == nil:
			exclude = resolved
		case errors.Is(err, contract.ErrRefNotFound):
			contract.LogWarn(fmt.Sprintf("Checkpoint %s is not in the history of %s; processing from the first commit", startHash, r.repoPath), err)
		default:
			return nil, fmt.Errorf("failed to resolve checkpoint %s: %w", startHash, err)
		}
	}

	// Every remaining commit is listed before the cut, so each batch costs a
	// walk of the history after the checkpoint.
	commits, err := r.client.ListCommits(ctx, r.repoPath, exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}
	if len(commits) > batchSize {
		commits = commits[:batchSize]
	}
	return commits, nil
}

// GetFilesInCommit implements the contract.HistoryReader interface.
func (r *GitHistoryReader) GetFilesInCommit(ctx context.Context, commit schema.Commit, includeDeleted bool) ([]string, error) {
	changes, err := r.changes(ctx, commit)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(changes))
	for _, c := range changes {
		if c.Type == schema.ChangeDeleted && !includeDeleted {
			continue
		}
		files = append(files, c.Path)
	}
	return r.filter.FilterFiles(files), nil
}

// GetDeletedFiles implements the contract.HistoryReader interface.
func (r *GitHistoryReader) GetDeletedFiles(ctx context.Context, commit schema.Commit) ([]string, error) {
	if commit.IsRoot() {
		return []string{}, nil
	}
	changes, err := r.changes(ctx, commit)
	if err != nil {
		return nil, err
	}
	deleted := []string{}
	for _, c := range changes {
		if c.Type == schema.ChangeDeleted {
			deleted = append(deleted, c.Path)
		}
	}
	return deleted, nil
}

// changes returns the commit's change list relative to its first parent. A
// root commit reports every tracked path as added.
func (r *GitHistoryReader) changes(ctx context.Context, commit schema.Commit) ([]schema.FileChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cachedHash == commit.Hash && r.cached != nil {
		return r.cached, nil
	}

	var changes []schema.FileChange
	if commit.IsRoot() {
		files, err := r.client.ListFilesAtRef(ctx, r.repoPath, commit.Hash)
		if err != nil {
			return nil, fmt.Errorf("failed to list files of root commit %s: %w", commit.ShortHash(), err)
		}
		changes = make([]schema.FileChange, 0, len(files))
		for _, f := range files {
			changes = append(changes, schema.FileChange{Path: f, Type: schema.ChangeAdded})
		}
	} else {
		var err error
		changes, err = r.client.GetCommitChanges(ctx, r.repoPath, commit.FirstParent(), commit.Hash)
		if err != nil {
			return nil, fmt.Errorf("failed to diff commit %s: %w", commit.ShortHash(), err)
		}
		if changes == nil {
			changes = []schema.FileChange{}
		}
	}

	r.cachedHash = commit.Hash
	r.cached = changes
	return changes, nil
}
