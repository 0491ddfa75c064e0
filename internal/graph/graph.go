package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thiagokokada/gittergraph/internal/git"
)

// Graph is the query surface over the current snapshot of a Source. It is
// not safe for concurrent use; a single owner serializes calls.
type Graph struct {
	src Source

	snapshot *Snapshot
	index    *RefIndex
	resolver *Resolver
	walker   *HistoryWalker
}

// New loads the first snapshot from src.
func New(src Source) (*Graph, error) {
	snap, err := Load(src)
	if err != nil {
		return nil, err
	}
	g := &Graph{src: src}
	g.publish(snap)
	return g, nil
}

// Open builds a Graph for the repository rooted at path.
func Open(path string) (*Graph, error) {
	repo, err := git.Open(path)
	if err != nil {
		return nil, err
	}
	return New(repo)
}

// Discover builds a Graph for the repository enclosing start.
func Discover(start string) (*Graph, error) {
	repo, err := git.Discover(start)
	if err != nil {
		return nil, err
	}
	return New(repo)
}

func (g *Graph) publish(snap *Snapshot) {
	g.snapshot = snap
	g.index = NewRefIndex(snap.Branches, snap.Tags)
	g.resolver = NewResolver(snap.Commits, snap.Branches, snap.Tags, snap.Head)
	g.walker = NewHistoryWalker(snap.Commits)
}

// Reload refreshes the source and loads a new snapshot. Derived indexes are
// rebuilt only when the snapshot changed. On error the previous snapshot
// stays in place.
func (g *Graph) Reload() (bool, error) {
	if err := g.src.Reload(); err != nil {
		return false, fmt.Errorf("reload repository: %w", err)
	}
	snap, err := Load(g.src)
	if err != nil {
		return false, fmt.Errorf("reload repository: %w", err)
	}
	if snap.Equal(g.snapshot) {
		slog.Debug("reload: snapshot unchanged")
		return false, nil
	}
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("reload: snapshot changed",
			slog.Int("commits", len(snap.Commits)),
			slog.String("refs", ChangeSummary(g.snapshot, snap)),
		)
	}
	g.publish(snap)
	return true, nil
}

func (g *Graph) Snapshot() *Snapshot {
	return g.snapshot
}

func (g *Graph) BranchesAtCommit(id string) []git.Branch {
	return g.index.BranchesAt(id)
}

func (g *Graph) TagsAtCommit(id string) []git.Tag {
	return g.index.TagsAt(id)
}

// Resolve returns the commit id name refers to.
func (g *Graph) Resolve(name string) (string, bool) {
	return g.resolver.Resolve(name)
}

// ResolveExact is Resolve restricted to HEAD, full commit ids and full ref
// names.
func (g *Graph) ResolveExact(name string) (string, bool) {
	return g.resolver.ResolveExact(name)
}

// LinearHistory returns the first-parent history of ref, or of HEAD when ref
// is empty. Unknown refs yield an empty slice.
func (g *Graph) LinearHistory(ref string) []git.Commit {
	if ref == "" {
		ref = headName
	}
	id, ok := g.resolver.Resolve(ref)
	if !ok {
		return []git.Commit{}
	}
	return g.walker.LinearHistoryFrom(id)
}

// Commit returns the commit name resolves to.
func (g *Graph) Commit(name string) (git.Commit, bool) {
	id, ok := g.resolver.Resolve(name)
	if !ok {
		return git.Commit{}, false
	}
	return g.snapshot.Commit(id)
}

func (g *Graph) Head() git.HeadInfo {
	return g.snapshot.Head
}

func (g *Graph) Branches() []git.Branch {
	return g.snapshot.SortedBranches()
}

func (g *Graph) Tags() []git.Tag {
	return g.snapshot.SortedTags()
}

// IsEmpty reports whether the repository has no commits.
func (g *Graph) IsEmpty() bool {
	return g.snapshot.IsEmpty()
}
