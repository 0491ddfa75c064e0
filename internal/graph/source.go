// Package graph keeps an in-memory snapshot of a repository's commits and
// references and answers decoration, resolution and history queries over it.
package graph

import "github.com/thiagokokada/gittergraph/internal/git"

// Source is the object access layer a Graph loads snapshots from.
// *git.Repository implements it.
type Source interface {
	Commits() (map[string]git.Commit, error)
	Branches() (map[string]git.Branch, error)
	Tags() (map[string]git.Tag, error)
	Head() (git.HeadInfo, error)
	// Reload refreshes the source so the next load observes external changes.
	Reload() error
}

var _ Source = (*git.Repository)(nil)
