package core

import (
	"context"
	"fmt"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// step is one synthetic commit: the countable paths it touched and the paths it deleted.
type step struct {
	files   []string
	deleted []string
}

// fakeHistory is an in-memory linear history implementing contract.HistoryReader.
type fakeHistory struct {
	commits []schema.Commit
	steps   map[string]step
	calls   int // number of GetCommitBatch calls
}

var _ contract.HistoryReader = &fakeHistory{} // Compile-time check

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// newFakeHistory builds commits c1..cN, each the child of the previous one.
func newFakeHistory(steps ...step) *fakeHistory {
	h := &fakeHistory{steps: make(map[string]step)}
	for _, s := range steps {
		h.add(s)
	}
	return h
}

// add appends one more commit, as if it was made after the last analysis.
func (h *fakeHistory) add(s step) schema.Commit {
	n := len(h.commits) + 1
	c := schema.Commit{
		Hash:       fmt.Sprintf("c%d", n),
		AuthorTime: baseTime.Add(time.Duration(n) * time.Hour),
	}
	if n > 1 {
		c.Parents = []string{h.commits[n-2].Hash}
	}
	h.commits = append(h.commits, c)
	h.steps[c.Hash] = s
	return c
}

func (h *fakeHistory) GetCommitBatch(_ context.Context, startHash string, batchSize int) ([]schema.Commit, error) {
	h.calls++
	start := 0
	for i, c := range h.commits {
		if c.Hash == startHash {
			start = i + 1
		}
	}
	end := min(start+batchSize, len(h.commits))
	return append([]schema.Commit{}, h.commits[start:end]...), nil
}

func (h *fakeHistory) GetFilesInCommit(_ context.Context, commit schema.Commit, _ bool) ([]string, error) {
	return h.steps[commit.Hash].files, nil
}

func (h *fakeHistory) GetDeletedFiles(_ context.Context, commit schema.Commit) ([]string, error) {
	return h.steps[commit.Hash].deleted, nil
}

// memoryStore keeps the last saved document in memory.
type memoryStore struct {
	doc   *schema.GraphDocument
	saves int
}

var _ contract.GraphStore = &memoryStore{} // Compile-time check

func (s *memoryStore) Load(context.Context) (*schema.GraphDocument, error) {
	if s.doc == nil {
		return schema.NewGraphDocument(), nil
	}
	return s.doc, nil
}

func (s *memoryStore) Save(_ context.Context, doc *schema.GraphDocument) error {
	s.doc = doc
	s.saves++
	return nil
}

func (s *memoryStore) Clear(context.Context) error {
	s.doc = nil
	return nil
}

func (s *memoryStore) GetStatus() (schema.StoreStatus, error) {
	return schema.StoreStatus{Backend: "memory", Connected: true, Exists: s.doc != nil}, nil
}

func (s *memoryStore) Location() string { return "memory" }

func (s *memoryStore) Close() error { return nil }
