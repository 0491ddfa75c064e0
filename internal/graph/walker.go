package graph

import "github.com/thiagokokada/gittergraph/internal/git"

type HistoryWalker struct {
	commits map[string]git.Commit
}

func NewHistoryWalker(commits map[string]git.Commit) *HistoryWalker {
	return &HistoryWalker{commits: commits}
}

// LinearHistoryFrom follows first parents starting at id, newest first. It
// stops at the first id missing from the snapshot and never returns nil.
func (w *HistoryWalker) LinearHistoryFrom(id string) []git.Commit {
	history := []git.Commit{}
	visited := map[string]bool{}
	for id != "" && !visited[id] {
		c, ok := w.commits[id]
		if !ok {
			break
		}
		visited[id] = true
		history = append(history, c)
		id = ""
		if !c.IsRoot() {
			id = c.ParentIDs[0]
		}
	}
	return history
}
