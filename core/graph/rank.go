package graph

import (
	"cmp"
	"slices"
)

// CompareEdges orders edges by correlation descending, then co-commit count
// descending, then source path and target path ascending.
func CompareEdges(a, b *Edge) int {
	if c := cmp.Compare(b.Correlation(), a.Correlation()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.CoCommitCount, a.CoCommitCount); c != 0 {
		return c
	}
	if c := cmp.Compare(a.SourcePath, b.SourcePath); c != 0 {
		return c
	}
	return cmp.Compare(a.TargetPath, b.TargetPath)
}

// SortEdges sorts edges in place using CompareEdges.
func SortEdges(edges []*Edge) {
	slices.SortFunc(edges, CompareEdges)
}
