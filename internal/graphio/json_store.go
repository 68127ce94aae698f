package graphio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
	"github.com/klauspost/compress/zstd"
)

// ZstdSuffix marks a graph file that is stored zstd-compressed.
const ZstdSuffix = ".zst"

// JSONGraphStore keeps one graph document in a JSON file.
type JSONGraphStore struct {
	path string
}

var _ contract.GraphStore = &JSONGraphStore{} // Compile-time check

// NewJSONGraphStore returns a store for the given file. A path ending in
// ".zst" is compressed with zstd.
func NewJSONGraphStore(path string) *JSONGraphStore {
	return &JSONGraphStore{path: path}
}

func (s *JSONGraphStore) compressed() bool {
	return strings.HasSuffix(s.path, ZstdSuffix)
}

// Load reads the document. A missing file yields an empty document.
func (s *JSONGraphStore) Load(_ context.Context) (*schema.GraphDocument, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return schema.NewGraphDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file %s: %w", s.path, err)
	}

	if s.compressed() {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer dec.Close()
		if data, err = dec.DecodeAll(data, nil); err != nil {
			return nil, fmt.Errorf("failed to decompress graph file %s: %w", s.path, err)
		}
	}

	doc := schema.NewGraphDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode graph file %s: %w", s.path, err)
	}
	return doc, nil
}

// Save writes the document to a temporary file and renames it into place.
func (s *JSONGraphStore) Save(_ context.Context, doc *schema.GraphDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}

	if s.compressed() {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		_ = enc.Close()
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create graph directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary graph file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write graph file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync graph file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close graph file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace graph file %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the graph file. A missing file is not an error.
func (s *JSONGraphStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove graph file %s: %w", s.path, err)
	}
	return nil
}

// GetStatus reports the file size and the totals recorded in the document.
func (s *JSONGraphStore) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(schema.JSONBackend),
		Location:  s.path,
		Connected: true,
	}

	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return status, nil
	}
	if err != nil {
		return status, fmt.Errorf("failed to stat graph file %s: %w", s.path, err)
	}
	status.Exists = true
	status.SizeBytes = info.Size()
	status.UpdatedAt = info.ModTime()

	doc, err := s.Load(context.Background())
	if err != nil {
		return status, err
	}
	fillDocumentStatus(&status, doc)
	status.TotalGraphs = 1
	return status, nil
}

// Location returns the graph file path.
func (s *JSONGraphStore) Location() string {
	return s.path
}

// Close is a no-op for file stores.
func (s *JSONGraphStore) Close() error {
	return nil
}

// fillDocumentStatus copies the totals of a document into a status.
func fillDocumentStatus(status *schema.StoreStatus, doc *schema.GraphDocument) {
	status.TotalNodes = len(doc.Nodes)
	status.TotalEdges = doc.EdgeCount()
	status.TotalCommits = doc.ProcessingState.TotalCommitsProcessed
	status.LastCommitHash = doc.ProcessingState.LastProcessedCommitHash
	status.LastCommitDate = doc.ProcessingState.LastProcessedCommitDate
}
