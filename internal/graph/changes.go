package graph

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/thiagokokada/gittergraph/internal/git"
)

// ChangeSummary returns a unified diff of the HEAD and reference tables of
// two snapshots, or "" when they match. Either snapshot may be nil.
func ChangeSummary(before, after *Snapshot) string {
	ud := difflib.UnifiedDiff{
		A:        refTable(before),
		B:        refTable(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  0,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return fmt.Sprintf("(diff failed: %v)", err)
	}
	return text
}

func refTable(s *Snapshot) []string {
	if s == nil {
		return nil
	}
	lines := []string{headLine(s.Head)}
	for _, b := range s.SortedBranches() {
		lines = append(lines, fmt.Sprintf("%s %s\n", b.TargetID, b.Name))
	}
	for _, t := range s.SortedTags() {
		lines = append(lines, fmt.Sprintf("%s %s\n", t.TargetID, t.Name))
	}
	return lines
}

func headLine(h git.HeadInfo) string {
	switch h.State {
	case git.HeadNormal:
		return fmt.Sprintf("%s HEAD -> %s\n", h.TargetID, h.BranchName)
	case git.HeadDetached:
		return fmt.Sprintf("%s HEAD (detached)\n", h.TargetID)
	default:
		return "HEAD (unborn)\n"
	}
}
