package graph

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/thiagokokada/gittergraph/internal/git"
)

// Snapshot is a point-in-time copy of a repository. It must not be mutated
// after Load returns it.
type Snapshot struct {
	Commits  map[string]git.Commit
	Branches map[string]git.Branch
	Tags     map[string]git.Tag
	Head     git.HeadInfo
}

func Load(src Source) (*Snapshot, error) {
	commits, err := src.Commits()
	if err != nil {
		return nil, fmt.Errorf("load commits: %w", err)
	}
	branches, err := src.Branches()
	if err != nil {
		return nil, fmt.Errorf("load branches: %w", err)
	}
	tags, err := src.Tags()
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	head, err := src.Head()
	if err != nil {
		return nil, fmt.Errorf("load HEAD: %w", err)
	}
	return &Snapshot{
		Commits:  nonNil(commits),
		Branches: nonNil(branches),
		Tags:     nonNil(tags),
		Head:     head,
	}, nil
}

// Equal reports whether both snapshots hold the same values.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Head == other.Head &&
		maps.Equal(s.Branches, other.Branches) &&
		maps.Equal(s.Tags, other.Tags) &&
		maps.EqualFunc(s.Commits, other.Commits, git.Commit.Equal)
}

func (s *Snapshot) Commit(id string) (git.Commit, bool) {
	c, ok := s.Commits[id]
	return c, ok
}

func (s *Snapshot) IsEmpty() bool {
	return len(s.Commits) == 0
}

// SortedBranches returns the branches ordered by full ref name.
func (s *Snapshot) SortedBranches() []git.Branch {
	return slices.SortedFunc(maps.Values(s.Branches), func(a, b git.Branch) int {
		return cmp.Compare(a.Name, b.Name)
	})
}

// SortedTags returns the tags ordered by full ref name.
func (s *Snapshot) SortedTags() []git.Tag {
	return slices.SortedFunc(maps.Values(s.Tags), func(a, b git.Tag) int {
		return cmp.Compare(a.Name, b.Name)
	})
}

func nonNil[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return m
}
