package graph

import (
	"maps"
	"slices"

	"github.com/thiagokokada/gittergraph/internal/git"
)

// RefIndex maps a commit id to the branches and tags pointing at it.
type RefIndex struct {
	branches map[string][]git.Branch
	tags     map[string][]git.Tag
}

// NewRefIndex groups refs by target. Within a commit, refs keep ascending
// full-name order.
func NewRefIndex(branches map[string]git.Branch, tags map[string]git.Tag) *RefIndex {
	idx := &RefIndex{
		branches: make(map[string][]git.Branch, len(branches)),
		tags:     make(map[string][]git.Tag, len(tags)),
	}
	for _, name := range slices.Sorted(maps.Keys(branches)) {
		b := branches[name]
		idx.branches[b.TargetID] = append(idx.branches[b.TargetID], b)
	}
	for _, name := range slices.Sorted(maps.Keys(tags)) {
		t := tags[name]
		idx.tags[t.TargetID] = append(idx.tags[t.TargetID], t)
	}
	return idx
}

// BranchesAt never returns nil.
func (idx *RefIndex) BranchesAt(commitID string) []git.Branch {
	return lookup(idx.branches, commitID)
}

// TagsAt never returns nil.
func (idx *RefIndex) TagsAt(commitID string) []git.Tag {
	return lookup(idx.tags, commitID)
}

func lookup[T any](m map[string][]T, key string) []T {
	refs := m[key]
	return append(make([]T, 0, len(refs)), refs...)
}
