// Package graph holds the in-memory file co-occurrence graph.
//
// Every edge is stored once in a table keyed by the unordered pair of paths,
// and each node indexes its edges by neighbour path. Lookups therefore work
// from either endpoint, and removing a node costs O(degree).
package graph

import (
	"cmp"
	"slices"
	"time"
)

// FileNode is one tracked file.
type FileNode struct {
	FilePath    string
	CommitCount int
	neighbors   map[string]*Edge
}

// Degree returns the number of edges touching the node.
func (n *FileNode) Degree() int {
	return len(n.neighbors)
}

// Edge counts how often two files were committed together. The source and
// target keep the orientation of the first co-occurrence; lookups ignore it.
type Edge struct {
	SourcePath    string
	TargetPath    string
	CoCommitCount int
	source        *FileNode
	target        *FileNode
}

// Correlation returns CoCommitCount divided by the smaller commit count of the
// two endpoints, or 0 when an endpoint is gone or has never been counted.
func (e *Edge) Correlation() float64 {
	minCount := e.MinCommitCount()
	if minCount <= 0 {
		return 0
	}
	return float64(e.CoCommitCount) / float64(minCount)
}

// MinCommitCount returns the smaller commit count of the two endpoints.
func (e *Edge) MinCommitCount() int {
	if e.source == nil || e.target == nil {
		return 0
	}
	return min(e.source.CommitCount, e.target.CommitCount)
}

// Other returns the endpoint path opposite to path.
func (e *Edge) Other(path string) string {
	if e.SourcePath == path {
		return e.TargetPath
	}
	return e.SourcePath
}

// detach disconnects a removed edge so stale references correlate to 0.
func (e *Edge) detach() {
	e.source = nil
	e.target = nil
}

// ProcessingState is the resumption checkpoint carried with the graph.
type ProcessingState struct {
	LastProcessedCommitHash string
	LastProcessedCommitDate time.Time
	TotalCommitsProcessed   int
}

// Advance records that one more commit has been applied.
func (s *ProcessingState) Advance(hash string, date time.Time) {
	s.LastProcessedCommitHash = hash
	s.LastProcessedCommitDate = date
	s.TotalCommitsProcessed++
}

// pairKey is the order-independent key of an edge.
type pairKey struct {
	lo, hi string
}

func keyOf(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// Graph is the aggregate of nodes, edges and the processing checkpoint.
// It is not safe for concurrent mutation.
type Graph struct {
	nodes map[string]*FileNode
	edges map[pairKey]*Edge
	State ProcessingState
}

// New returns an empty graph with a default checkpoint.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*FileNode),
		edges: make(map[pairKey]*Edge),
	}
}

// GetOrCreateNode returns the node for path, creating it with a zero count.
func (g *Graph) GetOrCreateNode(path string) *FileNode {
	if n, ok := g.nodes[path]; ok {
		return n
	}
	n := &FileNode{FilePath: path, neighbors: make(map[string]*Edge)}
	g.nodes[path] = n
	return n
}

// GetOrCreateEdge returns the edge between a and b, creating both nodes and
// the edge as needed. A file is never paired with itself, so a == b returns nil.
func (g *Graph) GetOrCreateEdge(a, b string) *Edge {
	if a == b {
		return nil
	}
	key := keyOf(a, b)
	if e, ok := g.edges[key]; ok {
		return e
	}
	source := g.GetOrCreateNode(a)
	target := g.GetOrCreateNode(b)
	e := &Edge{SourcePath: a, TargetPath: b, source: source, target: target}
	g.edges[key] = e
	source.neighbors[b] = e
	target.neighbors[a] = e
	return e
}

// Node returns the node for path.
func (g *Graph) Node(path string) (*FileNode, bool) {
	n, ok := g.nodes[path]
	return n, ok
}

// Edge returns the edge between a and b in either orientation.
func (g *Graph) Edge(a, b string) (*Edge, bool) {
	e, ok := g.edges[keyOf(a, b)]
	return e, ok
}

// RemoveNode deletes the node and every edge touching it. It reports whether
// a node was present.
func (g *Graph) RemoveNode(path string) bool {
	n, ok := g.nodes[path]
	if !ok {
		return false
	}
	for other, e := range n.neighbors {
		if peer, ok := g.nodes[other]; ok {
			delete(peer.neighbors, path)
		}
		delete(g.edges, keyOf(path, other))
		e.detach()
	}
	clear(n.neighbors)
	delete(g.nodes, path)
	return true
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns every node sorted by path.
func (g *Graph) Nodes() []*FileNode {
	out := make([]*FileNode, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b *FileNode) int {
		return cmp.Compare(a.FilePath, b.FilePath)
	})
	return out
}

// Edges returns every edge in ranked order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	SortEdges(out)
	return out
}

// TopCorrelations returns at most count edges in ranked order.
func (g *Graph) TopCorrelations(count int) []*Edge {
	if count <= 0 {
		return []*Edge{}
	}
	all := g.Edges()
	return all[:min(count, len(all))]
}

// Neighbors returns every edge touching path in ranked order.
func (g *Graph) Neighbors(path string) []*Edge {
	n, ok := g.nodes[path]
	if !ok {
		return []*Edge{}
	}
	out := make([]*Edge, 0, len(n.neighbors))
	for _, e := range n.neighbors {
		out = append(out, e)
	}
	SortEdges(out)
	return out
}
