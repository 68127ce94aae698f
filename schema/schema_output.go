package schema

import "time"

// CorrelationResult is one ranked file pair ready for presentation.
type CorrelationResult struct {
	Rank        int              `json:"rank" yaml:"rank"`
	Source      string           `json:"source" yaml:"source"`
	Target      string           `json:"target" yaml:"target"`
	Correlation float64          `json:"correlation" yaml:"correlation"`
	CoCommits   int              `json:"co_commits" yaml:"co_commits"`
	MinCommits  int              `json:"min_commits" yaml:"min_commits"`
	Level       CorrelationLevel `json:"level" yaml:"level"`
}

// ClusterFile is one member of a cluster.
type ClusterFile struct {
	Path        string `json:"path" yaml:"path"`
	CommitCount int    `json:"commit_count" yaml:"commit_count"`
}

// ClusterConnection is one strong edge inside a cluster.
type ClusterConnection struct {
	Source      string  `json:"source" yaml:"source"`
	Target      string  `json:"target" yaml:"target"`
	Correlation float64 `json:"correlation" yaml:"correlation"`
	CoCommits   int     `json:"co_commits" yaml:"co_commits"`
}

// ClusterResult is a connected group of strongly correlated files.
type ClusterResult struct {
	ID          int                 `json:"id" yaml:"id"`
	Size        int                 `json:"size" yaml:"size"`
	Files       []ClusterFile       `json:"files" yaml:"files"`
	Connections []ClusterConnection `json:"connections" yaml:"connections"`
}

// AnalysisSummary describes the outcome of one incremental analysis run.
type AnalysisSummary struct {
	RepoPath       string    `json:"repo_path" yaml:"repo_path"`
	Processed      int       `json:"processed" yaml:"processed"`
	TotalCommits   int       `json:"total_commits" yaml:"total_commits"`
	TotalFiles     int       `json:"total_files" yaml:"total_files"`
	TotalEdges     int       `json:"total_edges" yaml:"total_edges"`
	LastCommitHash string    `json:"last_commit_hash" yaml:"last_commit_hash"`
	LastCommitDate time.Time `json:"last_commit_date" yaml:"last_commit_date"`
	Saved          bool      `json:"saved" yaml:"saved"`
	Duration       string    `json:"duration" yaml:"duration"`
}

// EnrichCorrelation fills in the presentation fields of a result.
func EnrichCorrelation(rank int, r CorrelationResult) CorrelationResult {
	r.Rank = rank
	r.Level = GetCorrelationLevel(r.Correlation)
	return r
}

// ReportMeta carries graph-wide figures printed under a text report.
type ReportMeta struct {
	Title          string `json:"-" yaml:"-"`
	TotalFiles     int    `json:"total_files" yaml:"total_files"`
	TotalEdges     int    `json:"total_edges" yaml:"total_edges"`
	TotalCommits   int    `json:"total_commits" yaml:"total_commits"`
	LastCommitHash string `json:"last_commit_hash" yaml:"last_commit_hash"`
}
