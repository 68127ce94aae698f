package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// ErrRefNotFound is returned when a reference does not resolve to a commit.
var ErrRefNotFound = errors.New("reference not found")

// commitLogFormat separates hash, parents and author date with the ASCII unit separator.
const commitLogFormat = "--format=%H%x1f%P%x1f%aI"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	out, err := c.runRaw(ctx, repoPath, args...)
	var exitErr *exec.ExitError
	if ctx.Err() != nil && err != nil {
		return nil, err
	} else if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// runRaw runs git without rewriting its error, so callers can inspect the exit status.
func (c *LocalGitClient) runRaw(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("git %s interrupted: %w", args[0], ctx.Err())
	}
	return out, err
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ResolveCommit implements the GitClient interface. Only a clean exit status 1
// from 'rev-parse --verify --quiet' means the ref is missing; any other
// failure is returned as an error.
func (c *LocalGitClient) ResolveCommit(ctx context.Context, repoPath string, ref string) (string, error) {
	out, err := c.runRaw(ctx, repoPath, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err == nil {
		return strings.TrimSpace(string(out)), nil
	}
	if ctx.Err() != nil {
		return "", err
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		if exitErr.ExitCode() == 1 && stderr == "" {
			return "", fmt.Errorf("%w: %s", ErrRefNotFound, ref)
		}
		return "", fmt.Errorf("failed to resolve %s in %q: %s", ref, repoPath, stderr)
	}
	return "", fmt.Errorf("failed to resolve %s: %w", ref, err)
}

// ListCommits implements the GitClient interface. The whole range after
// exclude is listed on every call, since -n would cut before --reverse.
func (c *LocalGitClient) ListCommits(ctx context.Context, repoPath string, exclude string) ([]schema.Commit, error) {
	args := []string{"log", "--topo-order", "--reverse", commitLogFormat, "HEAD"}
	if exclude != "" {
		args = append(args, "^"+exclude)
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return parseCommitLog(out)
}

// GetCommitChanges implements the GitClient interface.
func (c *LocalGitClient) GetCommitChanges(ctx context.Context, repoPath string, parent string, commit string) ([]schema.FileChange, error) {
	args := []string{
		"diff-tree", "-r", "-z",
		"--no-commit-id", "--no-renames", "--name-status",
		parent, commit,
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return parseNameStatus(out)
}

// ListFilesAtRef implements the GitClient interface.
func (c *LocalGitClient) ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error) {
	args := []string{
		"ls-tree", "-r", "-z", "--name-only",
		ref,
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return splitNUL(out), nil
}

// parseCommitLog parses output produced with commitLogFormat.
func parseCommitLog(out []byte) ([]schema.Commit, error) {
	var commits []schema.Commit
	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\x1f")
		if len(fields) != 3 {
			return nil, fmt.Errorf("unexpected commit log line %q", line)
		}
		when, err := time.Parse(time.RFC3339, fields[2])
		if err != nil {
			return nil, fmt.Errorf("invalid author date for commit %s: %w", fields[0], err)
		}
		commits = append(commits, schema.Commit{
			Hash:       fields[0],
			AuthorTime: when,
			Parents:    strings.Fields(fields[1]),
		})
	}
	return commits, nil
}

// parseNameStatus parses NUL-separated "status, path" pairs from diff-tree -z.
func parseNameStatus(out []byte) ([]schema.FileChange, error) {
	tokens := splitNUL(out)
	if len(tokens)%2 != 0 {
		return nil, fmt.Errorf("unexpected name-status output with %d fields", len(tokens))
	}
	changes := make([]schema.FileChange, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		status, path := tokens[i], tokens[i+1]
		if status == "" {
			return nil, fmt.Errorf("empty status for %q", path)
		}
		changeType := schema.ChangeModified
		switch status[0] {
		case 'A':
			changeType = schema.ChangeAdded
		case 'D':
			changeType = schema.ChangeDeleted
		}
		changes = append(changes, schema.FileChange{Path: path, Type: changeType})
	}
	return changes, nil
}

// splitNUL splits NUL-terminated git output, dropping empty trailing fields.
func splitNUL(out []byte) []string {
	parts := bytes.Split(out, []byte{0})
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		result = append(result, string(p))
	}
	return result
}
