package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/thiagokokada/gittergraph/internal/git"
)

const dateLayout = "2006-01-02 15:04:05 -0700"

const (
	noCommitsText = "Repository has no commits yet."
	noHistoryText = "No commits."
)

// decorations answers which refs point at a commit; *graph.Graph implements it.
type decorations interface {
	BranchesAtCommit(id string) []git.Branch
	TagsAtCommit(id string) []git.Tag
}

type renderer struct {
	pal palette
	now func() time.Time
}

func newRenderer(pal palette) renderer {
	return renderer{pal: pal, now: time.Now}
}

func (r renderer) relative(t time.Time) string {
	return humanize.RelTime(t, r.now(), "ago", "from now")
}

// history writes one three-line entry per commit:
//
//	● abc1234 [main] <v1.0>
//	│ Subject line
//	│ Author Name, 3 days ago
func (r renderer) history(w io.Writer, commits []git.Commit, deco decorations) {
	if len(commits) == 0 {
		fmt.Fprintln(w, r.pal.paint(r.pal.Dim, noHistoryText))
		return
	}
	for _, c := range commits {
		r.commitRow(w, c, deco)
	}
}

func (r renderer) commitRow(w io.Writer, c git.Commit, deco decorations) {
	var header strings.Builder
	header.WriteString(r.pal.paint(r.pal.Graph, "●"))
	header.WriteString(" ")
	header.WriteString(r.pal.paint(r.pal.ID, c.ShortID()))
	for _, b := range deco.BranchesAtCommit(c.ID) {
		header.WriteString(" ")
		header.WriteString(r.pal.paint(r.pal.Branch, "["+b.Shorthand()+"]"))
	}
	for _, t := range deco.TagsAtCommit(c.ID) {
		header.WriteString(" ")
		header.WriteString(r.pal.paint(r.pal.Tag, "<"+t.Shorthand()+">"))
	}
	fmt.Fprintln(w, header.String())

	fmt.Fprintf(w, "%s %s\n", r.pal.paint(r.pal.Graph, "│"), c.ShortMessage())
	edge := "│"
	if c.IsRoot() {
		edge = "┴"
	}
	byline := fmt.Sprintf("%s, %s", c.Author.Name, r.relative(c.Author.When()))
	fmt.Fprintf(w, "%s %s\n", r.pal.paint(r.pal.Graph, edge), r.pal.paint(r.pal.Dim, byline))
}

func (r renderer) commitDetail(w io.Writer, c git.Commit) {
	fmt.Fprintln(w, r.pal.paint(r.pal.ID, "Commit: "+c.ID))
	if c.AuthorIsCommitter() {
		r.signature(w, "Author/Committer", "Date", c.Author)
	} else {
		r.signature(w, "Author", "Author Date", c.Author)
		r.signature(w, "Committer", "Committer Date", c.Committer)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, c.Message)
	if !c.IsRoot() {
		parents := make([]string, 0, len(c.ParentIDs))
		for _, p := range c.ParentIDs {
			parents = append(parents, git.Commit{ID: p}.ShortID())
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.pal.paint(r.pal.Dim, "Parents: "+strings.Join(parents, ", ")))
	}
}

func (r renderer) signature(w io.Writer, who, when string, sig git.Signature) {
	fmt.Fprintln(w, r.pal.paint(r.pal.Author, fmt.Sprintf("%s: %s", who, sig)))
	date := sig.When()
	fmt.Fprintln(w, r.pal.paint(r.pal.Author, fmt.Sprintf("%s: %s (%s)", when, date.Format(dateLayout), r.relative(date))))
}

func (r renderer) head(w io.Writer, head git.HeadInfo) {
	arrow := r.pal.paint(r.pal.Head, "→")
	switch {
	case head.BranchName != "":
		branch := git.Branch{Name: head.BranchName}
		fmt.Fprintf(w, "HEAD %s %s\n", arrow, r.pal.paint(r.pal.Head, branch.Shorthand()))
	case head.TargetID != "":
		id := git.Commit{ID: head.TargetID}.ShortID()
		fmt.Fprintf(w, "HEAD %s %s %s\n", arrow, r.pal.paint(r.pal.ID, id), r.pal.paint(r.pal.Dim, "(detached)"))
	default:
		fmt.Fprintf(w, "HEAD %s %s\n", arrow, r.pal.paint(r.pal.Dim, "unborn"))
	}
}

// branches marks the branch HEAD is attached to with "*".
func (r renderer) branches(w io.Writer, branches []git.Branch, head git.HeadInfo) {
	fmt.Fprintln(w, r.pal.paint(r.pal.Title, "Branches"))
	if len(branches) == 0 {
		fmt.Fprintln(w, r.pal.paint(r.pal.Dim, "  (none)"))
		return
	}
	for _, b := range branches {
		marker := " "
		if b.Name == head.BranchName {
			marker = "*"
		}
		id := git.Commit{ID: b.TargetID}.ShortID()
		fmt.Fprintf(w, "%s %s %s\n", marker, r.pal.paint(r.pal.Branch, b.Shorthand()), r.pal.paint(r.pal.ID, id))
	}
}

func (r renderer) tags(w io.Writer, tags []git.Tag) {
	fmt.Fprintln(w, r.pal.paint(r.pal.Title, "Tags"))
	if len(tags) == 0 {
		fmt.Fprintln(w, r.pal.paint(r.pal.Dim, "  (none)"))
		return
	}
	for _, t := range tags {
		id := git.Commit{ID: t.TargetID}.ShortID()
		fmt.Fprintf(w, "  %s %s\n", r.pal.paint(r.pal.Tag, t.Shorthand()), r.pal.paint(r.pal.ID, id))
	}
}

func (r renderer) title(w io.Writer, text string) {
	fmt.Fprintln(w, r.pal.paint(r.pal.Title, text))
}

func (r renderer) notice(w io.Writer, text string) {
	fmt.Fprintln(w, r.pal.paint(r.pal.Dim, text))
}
