package graph

import (
	"maps"
	"slices"
	"strings"

	"github.com/thiagokokada/gittergraph/internal/git"
)

const (
	headName = "HEAD"
	// minAbbrevLength is the shortest commit id prefix accepted by Resolve.
	minAbbrevLength = 4
)

// Resolver turns a name into a commit id. Precedence: HEAD, exact commit
// id, full branch name, full tag name, then a unique abbreviated commit id.
type Resolver struct {
	commits  map[string]git.Commit
	branches map[string]git.Branch
	tags     map[string]git.Tag
	head     git.HeadInfo

	sortedIDs []string
}

func NewResolver(commits map[string]git.Commit, branches map[string]git.Branch, tags map[string]git.Tag, head git.HeadInfo) *Resolver {
	return &Resolver{
		commits:   commits,
		branches:  branches,
		tags:      tags,
		head:      head,
		sortedIDs: slices.Sorted(maps.Keys(commits)),
	}
}

// Resolve returns false when name matches nothing. HEAD resolves to false
// while unborn.
func (r *Resolver) Resolve(name string) (string, bool) {
	if id, ok := r.ResolveExact(name); ok {
		return id, true
	}
	if name == headName {
		return "", false
	}
	return r.resolveAbbrev(name)
}

// ResolveExact is Resolve without abbreviated commit ids.
func (r *Resolver) ResolveExact(name string) (string, bool) {
	if name == headName {
		return r.head.TargetID, r.head.TargetID != ""
	}
	if _, ok := r.commits[name]; ok {
		return name, true
	}
	if b, ok := r.branches[name]; ok {
		return b.TargetID, true
	}
	if t, ok := r.tags[name]; ok {
		return t.TargetID, true
	}
	return "", false
}

// resolveAbbrev matches a commit id prefix; an ambiguous prefix matches nothing.
func (r *Resolver) resolveAbbrev(prefix string) (string, bool) {
	if len(prefix) < minAbbrevLength || !isLowerHex(prefix) {
		return "", false
	}
	i, _ := slices.BinarySearch(r.sortedIDs, prefix)
	if i >= len(r.sortedIDs) || !strings.HasPrefix(r.sortedIDs[i], prefix) {
		return "", false
	}
	if i+1 < len(r.sortedIDs) && strings.HasPrefix(r.sortedIDs[i+1], prefix) {
		return "", false
	}
	return r.sortedIDs[i], true
}

func isLowerHex(s string) bool {
	for i := range len(s) {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return s != ""
}
