package schema

import "time"

// GraphDocument is the persisted form of a correlation graph.
// Field names are part of the on-disk format and must not change.
type GraphDocument struct {
	Nodes           []NodeRecord          `json:"Nodes" yaml:"nodes"`
	ProcessingState ProcessingStateRecord `json:"ProcessingState" yaml:"processing_state"`
}

// NodeRecord is one file in a persisted graph. Each edge is listed once,
// under the node that was its source when it was first created.
type NodeRecord struct {
	FilePath    string       `json:"FilePath" yaml:"file_path"`
	CommitCount int          `json:"CommitCount" yaml:"commit_count"`
	Edges       []EdgeRecord `json:"Edges" yaml:"edges"`
}

// EdgeRecord is one co-occurrence pair in a persisted graph.
type EdgeRecord struct {
	SourceFilePath string `json:"SourceFilePath" yaml:"source_file_path"`
	TargetFilePath string `json:"TargetFilePath" yaml:"target_file_path"`
	CoCommitCount  int    `json:"CoCommitCount" yaml:"co_commit_count"`
}

// ProcessingStateRecord is the persisted resumption checkpoint.
type ProcessingStateRecord struct {
	LastProcessedCommitHash string    `json:"LastProcessedCommitHash" yaml:"last_processed_commit_hash"`
	LastProcessedCommitDate time.Time `json:"LastProcessedCommitDate" yaml:"last_processed_commit_date"`
	TotalCommitsProcessed   int       `json:"TotalCommitsProcessed" yaml:"total_commits_processed"`
}

// NewGraphDocument returns an empty document with a default checkpoint.
func NewGraphDocument() *GraphDocument {
	return &GraphDocument{Nodes: []NodeRecord{}}
}

// EdgeCount returns the number of edges listed in the document.
func (d *GraphDocument) EdgeCount() int {
	total := 0
	for _, n := range d.Nodes {
		total += len(n.Edges)
	}
	return total
}
