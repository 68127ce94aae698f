package contract

import (
	"context"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// ResolveCommit implements the GitClient interface.
func (m *MockGitClient) ResolveCommit(ctx context.Context, repoPath string, ref string) (string, error) {
	ret := m.Called(ctx, repoPath, ref)
	return ret.String(0), ret.Error(1)
}

// ListCommits implements the GitClient interface.
func (m *MockGitClient) ListCommits(ctx context.Context, repoPath string, exclude string) ([]schema.Commit, error) {
	ret := m.Called(ctx, repoPath, exclude)
	commits, _ := ret.Get(0).([]schema.Commit)
	return commits, ret.Error(1)
}

// GetCommitChanges implements the GitClient interface.
func (m *MockGitClient) GetCommitChanges(ctx context.Context, repoPath string, parent string, commit string) ([]schema.FileChange, error) {
	ret := m.Called(ctx, repoPath, parent, commit)
	changes, _ := ret.Get(0).([]schema.FileChange)
	return changes, ret.Error(1)
}

// ListFilesAtRef implements the GitClient interface.
func (m *MockGitClient) ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error) {
	ret := m.Called(ctx, repoPath, ref)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// MockHistoryReader is a mock implementation of HistoryReader for testing.
type MockHistoryReader struct {
	mock.Mock
}

var _ HistoryReader = &MockHistoryReader{} // Compile-time check

// GetCommitBatch implements the HistoryReader interface.
func (m *MockHistoryReader) GetCommitBatch(ctx context.Context, startHash string, batchSize int) ([]schema.Commit, error) {
	ret := m.Called(ctx, startHash, batchSize)
	commits, _ := ret.Get(0).([]schema.Commit)
	return commits, ret.Error(1)
}

// GetFilesInCommit implements the HistoryReader interface.
func (m *MockHistoryReader) GetFilesInCommit(ctx context.Context, commit schema.Commit, includeDeleted bool) ([]string, error) {
	ret := m.Called(ctx, commit, includeDeleted)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// GetDeletedFiles implements the HistoryReader interface.
func (m *MockHistoryReader) GetDeletedFiles(ctx context.Context, commit schema.Commit) ([]string, error) {
	ret := m.Called(ctx, commit)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// MockGraphStore is a mock implementation of GraphStore for testing.
type MockGraphStore struct {
	mock.Mock
}

var _ GraphStore = &MockGraphStore{} // Compile-time check

// Load implements the GraphStore interface.
func (m *MockGraphStore) Load(ctx context.Context) (*schema.GraphDocument, error) {
	ret := m.Called(ctx)
	doc, _ := ret.Get(0).(*schema.GraphDocument)
	return doc, ret.Error(1)
}

// Save implements the GraphStore interface.
func (m *MockGraphStore) Save(ctx context.Context, doc *schema.GraphDocument) error {
	ret := m.Called(ctx, doc)
	return ret.Error(0)
}

// Clear implements the GraphStore interface.
func (m *MockGraphStore) Clear(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

// GetStatus implements the GraphStore interface.
func (m *MockGraphStore) GetStatus() (schema.StoreStatus, error) {
	ret := m.Called()
	status, _ := ret.Get(0).(schema.StoreStatus)
	return status, ret.Error(1)
}

// Location implements the GraphStore interface.
func (m *MockGraphStore) Location() string {
	ret := m.Called()
	return ret.String(0)
}

// Close implements the GraphStore interface.
func (m *MockGraphStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}

// MockResultWriter is a mock implementation of ResultWriter for testing.
type MockResultWriter struct {
	mock.Mock
}

var _ ResultWriter = &MockResultWriter{} // Compile-time check

// WriteCorrelations implements the ResultWriter interface.
func (m *MockResultWriter) WriteCorrelations(results []schema.CorrelationResult, meta schema.ReportMeta, cfg *Config, duration time.Duration) error {
	ret := m.Called(results, meta, cfg, duration)
	return ret.Error(0)
}

// WriteRelated implements the ResultWriter interface.
func (m *MockResultWriter) WriteRelated(path string, results []schema.CorrelationResult, meta schema.ReportMeta, cfg *Config, duration time.Duration) error {
	ret := m.Called(path, results, meta, cfg, duration)
	return ret.Error(0)
}

// WriteClusters implements the ResultWriter interface.
func (m *MockResultWriter) WriteClusters(clusters []schema.ClusterResult, meta schema.ReportMeta, cfg *Config, duration time.Duration) error {
	ret := m.Called(clusters, meta, cfg, duration)
	return ret.Error(0)
}
