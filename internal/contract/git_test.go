package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// gitIn runs git in dir with a fixed identity and fails the test on error.
func gitIn(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test", "GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_CONFIG_NOSYSTEM=1", "HOME="+dir,
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

// writeFile writes content to a repo-relative path, creating parent directories.
func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// TestMockGitClient_Run ensures the mock correctly records and returns
// expected values when its Run method is called.
func TestMockGitClient_Run(t *testing.T) {
	mockClient := new(MockGitClient)

	const expectedRepoPath = "/path/to/repo"
	expectedArgs := []string{"log", "-1", "--oneline"}
	expectedOutput := []byte("a1b2c3d commit message")
	expectedError := errors.New("mocked git error")

	ctx := context.Background()
	calledArgs := []any{ctx, expectedRepoPath}
	for _, arg := range expectedArgs {
		calledArgs = append(calledArgs, arg)
	}

	mockClient.
		On("Run", calledArgs...).
		Return(expectedOutput, expectedError).
		Once()

	actualOutput, actualError := mockClient.Run(ctx, expectedRepoPath, expectedArgs...)

	assert.Equal(t, expectedOutput, actualOutput, "Run should return the programmed output")
	assert.Equal(t, expectedError, actualError, "Run should return the programmed error")
	mockClient.AssertExpectations(t)
}

func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client, "NewLocalGitClient should return a non-nil client")
	assert.IsType(t, &LocalGitClient{}, client, "NewLocalGitClient should return a LocalGitClient instance")
}

func TestParseCommitLog(t *testing.T) {
	out := []byte("aaa\x1f\x1f2024-01-01T10:00:00+02:00\n" +
		"bbb\x1faaa\x1f2024-01-02T10:00:00Z\n" +
		"ccc\x1fbbb ddd\x1f2024-01-03T10:00:00Z\n\n")

	commits, err := parseCommitLog(out)
	require.NoError(t, err)
	require.Len(t, commits, 3)

	assert.Equal(t, "aaa", commits[0].Hash)
	assert.Empty(t, commits[0].Parents)
	assert.True(t, commits[0].AuthorTime.Equal(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"aaa"}, commits[1].Parents)
	assert.Equal(t, []string{"bbb", "ddd"}, commits[2].Parents)

	empty, err := parseCommitLog(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = parseCommitLog([]byte("broken line\n"))
	assert.Error(t, err)

	_, err = parseCommitLog([]byte("aaa\x1f\x1fnot-a-date\n"))
	assert.Error(t, err)
}

func TestParseNameStatus(t *testing.T) {
	out := []byte("M\x00src/a.go\x00A\x00src/new file.go\x00D\x00old.go\x00T\x00link\x00")
	changes, err := parseNameStatus(out)
	require.NoError(t, err)
	assert.Equal(t, []schema.FileChange{
		{Path: "src/a.go", Type: schema.ChangeModified},
		{Path: "src/new file.go", Type: schema.ChangeAdded},
		{Path: "old.go", Type: schema.ChangeDeleted},
		{Path: "link", Type: schema.ChangeModified},
	}, changes)

	_, err = parseNameStatus([]byte("M\x00"))
	assert.Error(t, err)

	none, err := parseNameStatus([]byte{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSplitNUL(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, splitNUL([]byte("a\x00b c\x00")))
	assert.Empty(t, splitNUL(nil))
}

// TestLocalGitClient_History exercises every history method against a throwaway repository.
func TestLocalGitClient_History(t *testing.T) {
	skipIfGitNotAvailable(t)

	ctx := context.Background()
	dir := t.TempDir()
	client := NewLocalGitClient()

	gitIn(t, dir, "init", "-q")

	_, err := client.ResolveCommit(ctx, dir, "HEAD")
	assert.ErrorIs(t, err, ErrRefNotFound, "unborn HEAD does not resolve")

	writeFile(t, dir, "src/a.go", "package a\n")
	writeFile(t, dir, "src/b.go", "package b\n")
	gitIn(t, dir, "add", "-A")
	gitIn(t, dir, "commit", "-q", "-m", "first")

	writeFile(t, dir, "src/a.go", "package a // changed\n")
	require.NoError(t, os.Remove(filepath.Join(dir, "src", "b.go")))
	writeFile(t, dir, "docs/c d.txt", "hello\n")
	gitIn(t, dir, "add", "-A")
	gitIn(t, dir, "commit", "-q", "-m", "second")

	root, err := client.GetRepoRoot(ctx, filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.NotEmpty(t, root)

	commits, err := client.ListCommits(ctx, dir, "")
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Empty(t, commits[0].Parents)
	assert.Equal(t, []string{commits[0].Hash}, commits[1].Parents)

	head, err := client.ResolveCommit(ctx, dir, "HEAD")
	require.NoError(t, err)
	assert.Equal(t, commits[1].Hash, head)

	_, err = client.ResolveCommit(ctx, dir, "0123456789012345678901234567890123456789")
	assert.ErrorIs(t, err, ErrRefNotFound)

	after, err := client.ListCommits(ctx, dir, commits[0].Hash)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, head, after[0].Hash)

	files, err := client.ListFilesAtRef(ctx, dir, commits[0].Hash)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/a.go", "src/b.go"}, files)

	changes, err := client.GetCommitChanges(ctx, dir, commits[0].Hash, commits[1].Hash)
	require.NoError(t, err)
	assert.ElementsMatch(t, []schema.FileChange{
		{Path: "docs/c d.txt", Type: schema.ChangeAdded},
		{Path: "src/a.go", Type: schema.ChangeModified},
		{Path: "src/b.go", Type: schema.ChangeDeleted},
	}, changes)
}

func TestLocalGitClient_Run(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	_, err := client.Run(context.Background(), "/nonexistent/path", "status")
	assert.Error(t, err, "Run should return an error for a missing directory")

	_, err = client.GetRepoRoot(context.Background(), t.TempDir())
	assert.Error(t, err, "GetRepoRoot should return an error outside a repository")
}

func TestLocalGitClient_ResolveCommitFailures(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient()

	t.Run("not a repository", func(t *testing.T) {
		_, err := client.ResolveCommit(context.Background(), t.TempDir(), "HEAD")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrRefNotFound)
	})

	t.Run("cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		gitIn(t, dir, "init", "-q")
		writeFile(t, dir, "src/a.go", "package a\n")
		gitIn(t, dir, "add", "-A")
		gitIn(t, dir, "commit", "-q", "-m", "first")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.ResolveCommit(ctx, dir, "HEAD")
		require.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrRefNotFound)

		_, err = client.Run(ctx, dir, "status")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
