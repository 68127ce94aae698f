package graph

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// Errors reported when a persisted document cannot be turned into a graph.
var (
	ErrInvalidDocument = errors.New("invalid graph document")
	ErrDanglingEdge    = errors.New("edge references unknown file")
)

// Document converts the graph into its persisted form. Nodes are sorted by
// path and each edge is listed once, under its source node, sorted by target.
func (g *Graph) Document() *schema.GraphDocument {
	doc := &schema.GraphDocument{
		Nodes: make([]schema.NodeRecord, 0, len(g.nodes)),
		ProcessingState: schema.ProcessingStateRecord{
			LastProcessedCommitHash: g.State.LastProcessedCommitHash,
			LastProcessedCommitDate: g.State.LastProcessedCommitDate,
			TotalCommitsProcessed:   g.State.TotalCommitsProcessed,
		},
	}

	owned := make(map[string][]schema.EdgeRecord, len(g.nodes))
	for _, e := range g.edges {
		owned[e.SourcePath] = append(owned[e.SourcePath], schema.EdgeRecord{
			SourceFilePath: e.SourcePath,
			TargetFilePath: e.TargetPath,
			CoCommitCount:  e.CoCommitCount,
		})
	}

	for _, n := range g.Nodes() {
		edges := owned[n.FilePath]
		slices.SortFunc(edges, func(a, b schema.EdgeRecord) int {
			return cmp.Compare(a.TargetFilePath, b.TargetFilePath)
		})
		if edges == nil {
			edges = []schema.EdgeRecord{}
		}
		doc.Nodes = append(doc.Nodes, schema.NodeRecord{
			FilePath:    n.FilePath,
			CommitCount: n.CommitCount,
			Edges:       edges,
		})
	}
	return doc
}

// FromDocument rebuilds a graph from its persisted form. All nodes are created
// before any edge so that edge endpoints resolve by path lookup.
func FromDocument(doc *schema.GraphDocument) (*Graph, error) {
	g := New()
	if doc == nil {
		return g, nil
	}

	for _, rec := range doc.Nodes {
		if rec.FilePath == "" {
			return nil, fmt.Errorf("%w: node with empty path", ErrInvalidDocument)
		}
		if _, dup := g.nodes[rec.FilePath]; dup {
			return nil, fmt.Errorf("%w: duplicate node %q", ErrInvalidDocument, rec.FilePath)
		}
		if rec.CommitCount < 0 {
			return nil, fmt.Errorf("%w: negative commit count for %q", ErrInvalidDocument, rec.FilePath)
		}
		g.GetOrCreateNode(rec.FilePath).CommitCount = rec.CommitCount
	}

	for _, rec := range doc.Nodes {
		for _, er := range rec.Edges {
			if err := g.restoreEdge(rec.FilePath, er); err != nil {
				return nil, err
			}
		}
	}

	state := doc.ProcessingState
	if state.TotalCommitsProcessed < 0 {
		return nil, fmt.Errorf("%w: negative total commit count", ErrInvalidDocument)
	}
	g.State = ProcessingState{
		LastProcessedCommitHash: state.LastProcessedCommitHash,
		LastProcessedCommitDate: state.LastProcessedCommitDate,
		TotalCommitsProcessed:   state.TotalCommitsProcessed,
	}
	return g, nil
}

// restoreEdge validates and recreates one persisted edge owned by owner.
func (g *Graph) restoreEdge(owner string, er schema.EdgeRecord) error {
	if er.SourceFilePath != owner {
		return fmt.Errorf("%w: edge %q -> %q listed under %q", ErrInvalidDocument, er.SourceFilePath, er.TargetFilePath, owner)
	}
	if er.SourceFilePath == er.TargetFilePath {
		return fmt.Errorf("%w: self edge on %q", ErrInvalidDocument, er.SourceFilePath)
	}
	source, ok := g.nodes[er.SourceFilePath]
	if !ok {
		return fmt.Errorf("%w: %q", ErrDanglingEdge, er.SourceFilePath)
	}
	target, ok := g.nodes[er.TargetFilePath]
	if !ok {
		return fmt.Errorf("%w: %q -> %q", ErrDanglingEdge, er.SourceFilePath, er.TargetFilePath)
	}
	if _, dup := g.Edge(er.SourceFilePath, er.TargetFilePath); dup {
		return fmt.Errorf("%w: duplicate edge %q <-> %q", ErrInvalidDocument, er.SourceFilePath, er.TargetFilePath)
	}
	if er.CoCommitCount < 0 || er.CoCommitCount > min(source.CommitCount, target.CommitCount) {
		return fmt.Errorf("%w: co-commit count %d out of range for %q <-> %q", ErrInvalidDocument, er.CoCommitCount, er.SourceFilePath, er.TargetFilePath)
	}
	g.GetOrCreateEdge(er.SourceFilePath, er.TargetFilePath).CoCommitCount = er.CoCommitCount
	return nil
}
