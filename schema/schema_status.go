package schema

import "time"

// StoreStatus represents the status of a graph store.
type StoreStatus struct {
	Backend        string    `json:"backend"`
	Location       string    `json:"location"`
	Connected      bool      `json:"connected"`
	Exists         bool      `json:"exists"`
	SizeBytes      int64     `json:"size_bytes"`
	TotalGraphs    int       `json:"total_graphs"`
	TotalNodes     int       `json:"total_nodes"`
	TotalEdges     int       `json:"total_edges"`
	TotalCommits   int       `json:"total_commits"`
	LastCommitHash string    `json:"last_commit_hash"`
	LastCommitDate time.Time `json:"last_commit_date"`
	UpdatedAt      time.Time `json:"updated_at"`
}
