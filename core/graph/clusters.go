package graph

import (
	"cmp"
	"slices"
)

// Default thresholds for cluster detection.
const (
	DefaultClusterMinCommits     = 2
	DefaultClusterMaxConnections = 15
	DefaultClusterMinCorrelation = 0.4
)

// ClusterOptions controls which nodes and edges take part in clustering.
// MaxConnections <= 0 disables the degree limit.
type ClusterOptions struct {
	MinCommits     int
	MaxConnections int
	MinCorrelation float64
}

// DefaultClusterOptions returns the default cluster thresholds.
func DefaultClusterOptions() ClusterOptions {
	return ClusterOptions{
		MinCommits:     DefaultClusterMinCommits,
		MaxConnections: DefaultClusterMaxConnections,
		MinCorrelation: DefaultClusterMinCorrelation,
	}
}

// Cluster is a connected group of files linked by strong edges.
type Cluster struct {
	Files       []*FileNode
	Connections []*Edge
}

// eligible reports whether a node may join a cluster. Highly connected hubs
// are left out so they do not fuse unrelated groups together.
func (o ClusterOptions) eligible(n *FileNode) bool {
	if n.CommitCount < o.MinCommits {
		return false
	}
	return o.MaxConnections <= 0 || n.Degree() <= o.MaxConnections
}

// Clusters returns the connected components of the strong-edge subgraph with
// at least two files, largest first.
func (g *Graph) Clusters(opts ClusterOptions) []Cluster {
	strong := make(map[string][]*Edge)
	for _, n := range g.Nodes() {
		if !opts.eligible(n) {
			continue
		}
		for other, e := range n.neighbors {
			peer, ok := g.nodes[other]
			if !ok || !opts.eligible(peer) {
				continue
			}
			if e.Correlation() >= opts.MinCorrelation {
				strong[n.FilePath] = append(strong[n.FilePath], e)
			}
		}
	}

	starts := make([]string, 0, len(strong))
	for path := range strong {
		starts = append(starts, path)
	}
	slices.Sort(starts)

	visited := make(map[string]bool, len(strong))
	var clusters []Cluster
	for _, start := range starts {
		if visited[start] {
			continue
		}
		members := []string{}
		queue := []string{start}
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			members = append(members, cur)
			for _, e := range strong[cur] {
				next := e.Other(cur)
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		if len(members) < 2 {
			continue
		}
		clusters = append(clusters, g.buildCluster(members, strong))
	}

	slices.SortFunc(clusters, func(a, b Cluster) int {
		if c := cmp.Compare(len(b.Files), len(a.Files)); c != 0 {
			return c
		}
		return cmp.Compare(a.Files[0].FilePath, b.Files[0].FilePath)
	})
	return clusters
}

func (g *Graph) buildCluster(members []string, strong map[string][]*Edge) Cluster {
	slices.Sort(members)
	c := Cluster{Files: make([]*FileNode, 0, len(members))}
	seen := make(map[*Edge]bool)
	for _, path := range members {
		c.Files = append(c.Files, g.nodes[path])
		for _, e := range strong[path] {
			if !seen[e] {
				seen[e] = true
				c.Connections = append(c.Connections, e)
			}
		}
	}
	SortEdges(c.Connections)
	return c
}
