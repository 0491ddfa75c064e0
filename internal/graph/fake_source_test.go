package graph

import (
	"errors"

	"github.com/thiagokokada/gittergraph/internal/git"
)

type fakeSource struct {
	commitsFunc  func() (map[string]git.Commit, error)
	branchesFunc func() (map[string]git.Branch, error)
	tagsFunc     func() (map[string]git.Tag, error)
	headFunc     func() (git.HeadInfo, error)
	reloadFunc   func() error

	reloads int
}

// newFakeSource serves the contents of snap, which may be swapped by tests
// through the returned pointer.
func newFakeSource(snap **Snapshot) *fakeSource {
	return &fakeSource{
		commitsFunc:  func() (map[string]git.Commit, error) { return (*snap).Commits, nil },
		branchesFunc: func() (map[string]git.Branch, error) { return (*snap).Branches, nil },
		tagsFunc:     func() (map[string]git.Tag, error) { return (*snap).Tags, nil },
		headFunc:     func() (git.HeadInfo, error) { return (*snap).Head, nil },
	}
}

func (f *fakeSource) Commits() (map[string]git.Commit, error) {
	if f.commitsFunc != nil {
		return f.commitsFunc()
	}
	return nil, errors.New("unexpected Commits call")
}

func (f *fakeSource) Branches() (map[string]git.Branch, error) {
	if f.branchesFunc != nil {
		return f.branchesFunc()
	}
	return nil, errors.New("unexpected Branches call")
}

func (f *fakeSource) Tags() (map[string]git.Tag, error) {
	if f.tagsFunc != nil {
		return f.tagsFunc()
	}
	return nil, errors.New("unexpected Tags call")
}

func (f *fakeSource) Head() (git.HeadInfo, error) {
	if f.headFunc != nil {
		return f.headFunc()
	}
	return git.HeadInfo{}, errors.New("unexpected Head call")
}

func (f *fakeSource) Reload() error {
	f.reloads++
	if f.reloadFunc != nil {
		return f.reloadFunc()
	}
	return nil
}

func commit(id string, parents ...string) git.Commit {
	return git.Commit{ID: id, Message: "commit " + id, ParentIDs: parents}
}

func commitMap(commits ...git.Commit) map[string]git.Commit {
	m := make(map[string]git.Commit, len(commits))
	for _, c := range commits {
		m[c.ID] = c
	}
	return m
}

func ids(commits []git.Commit) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.ID)
	}
	return out
}
