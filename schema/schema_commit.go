package schema

import "time"

// Commit identifies one commit in repository history.
type Commit struct {
	Hash       string    `json:"hash"`
	AuthorTime time.Time `json:"author_time"`
	Parents    []string  `json:"parents"`
}

// IsRoot reports whether the commit has no parents.
func (c Commit) IsRoot() bool {
	return len(c.Parents) == 0
}

// FirstParent returns the first parent hash, or an empty string for a root commit.
func (c Commit) FirstParent() string {
	if c.IsRoot() {
		return ""
	}
	return c.Parents[0]
}

// ShortHash returns an abbreviated hash for display.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 8 {
		return c.Hash[:8]
	}
	return c.Hash
}

// FileChange is a single path touched by a commit relative to its first parent.
type FileChange struct {
	Path string
	Type ChangeType
}
