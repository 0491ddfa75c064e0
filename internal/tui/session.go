package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/thiagokokada/gittergraph/internal/git"
	"github.com/thiagokokada/gittergraph/internal/graph"
)

const headName = "HEAD"

var (
	branchPrefixes = []string{"refs/heads/", "refs/remotes/"}
	tagPrefixes    = []string{"refs/tags/"}
	refPrefixes    = []string{"refs/heads/", "refs/remotes/", "refs/tags/"}
)

// session is the state of one viewer: the graph plus the history currently
// on screen.
type session struct {
	graph  *graph.Graph
	render renderer
	out    io.Writer
	limit  int

	ref     string
	history []git.Commit
	// shown is how many commits of history have been printed.
	shown int
}

func newSession(g *graph.Graph, r renderer, out io.Writer, limit int) *session {
	return &session{graph: g, render: r, out: out, limit: limit, ref: headName}
}

type command struct {
	names       []string
	usage       string
	description string
	run         func(arg string) (quit bool)
}

func (s *session) commands() []command {
	keep := func(fn func(string)) func(string) bool {
		return func(arg string) bool {
			fn(arg)
			return false
		}
	}
	return []command{
		{
			names:       []string{"q", "quit"},
			usage:       "q",
			description: "Quit",
			run:         func(string) bool { return true },
		},
		{
			names:       []string{"r", "reload"},
			usage:       "r",
			description: "Reload the repository",
			run:         keep(func(string) { s.reload(true) }),
		},
		{
			names:       []string{"c"},
			usage:       "c",
			description: "Show the current history again",
			run:         keep(func(string) { s.showHistory(s.ref) }),
		},
		{
			names:       []string{"n"},
			usage:       "n",
			description: "Show more of the current history",
			run:         keep(func(string) { s.more() }),
		},
		{
			names:       []string{"d"},
			usage:       "d [commit]",
			description: "Show commit details (default: newest in the current history)",
			run:         keep(s.detail),
		},
		{
			names:       []string{"h"},
			usage:       "h",
			description: "Show HEAD and its history",
			run: keep(func(string) {
				s.render.head(s.out, s.graph.Head())
				s.showHistory(headName)
			}),
		},
		{
			names:       []string{"b"},
			usage:       "b [branch]",
			description: "List branches, or show the history of a branch",
			run: keep(func(arg string) {
				if arg == "" {
					s.render.branches(s.out, s.graph.Branches(), s.graph.Head())
					return
				}
				s.showRef(arg, append(qualified(arg, branchPrefixes), arg))
			}),
		},
		{
			names:       []string{"t"},
			usage:       "t [tag]",
			description: "List tags, or show the history of a tag",
			run: keep(func(arg string) {
				if arg == "" {
					s.render.tags(s.out, s.graph.Tags())
					return
				}
				s.showRef(arg, append(qualified(arg, tagPrefixes), arg))
			}),
		},
		{
			names:       []string{"f"},
			usage:       "f <text>",
			description: "Filter the current history by id, message or author",
			run:         keep(s.filter),
		},
		{
			names:       []string{"?", "help"},
			usage:       "?",
			description: "Show this help",
			run:         keep(func(string) { s.help() }),
		},
	}
}

// execute runs one command line and reports whether the viewer should quit.
// Input that is not a command is treated as a reference name.
func (s *session) execute(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	for _, cmd := range s.commands() {
		for _, n := range cmd.names {
			if n == name {
				return cmd.run(arg)
			}
		}
	}
	s.showRef(line, append([]string{line}, qualified(line, refPrefixes)...))
	return false
}

func (s *session) help() {
	s.render.title(s.out, "Commands")
	for _, cmd := range s.commands() {
		fmt.Fprintf(s.out, "  %-12s %s\n", cmd.usage, cmd.description)
	}
	fmt.Fprintf(s.out, "  %-12s %s\n", "<ref>", "Show the history of a branch, tag or commit")
}

// overview prints HEAD, the refs and the HEAD history.
func (s *session) overview() {
	s.render.head(s.out, s.graph.Head())
	if s.graph.IsEmpty() {
		s.render.notice(s.out, noCommitsText)
		return
	}
	fmt.Fprintln(s.out)
	s.render.branches(s.out, s.graph.Branches(), s.graph.Head())
	fmt.Fprintln(s.out)
	s.render.tags(s.out, s.graph.Tags())
	fmt.Fprintln(s.out)
	s.showHistory(headName)
}

// reload refreshes the graph and re-renders the current history when it
// changed. It reports whether anything changed.
func (s *session) reload(verbose bool) bool {
	changed, err := s.graph.Reload()
	if err != nil {
		slog.Error("reload", slog.Any("error", err))
		s.render.notice(s.out, fmt.Sprintf("Reload failed: %v", err))
		return false
	}
	if !changed {
		if verbose {
			s.render.notice(s.out, "Graph unchanged")
		}
		return false
	}
	s.render.notice(s.out, "Graph reloaded")
	if _, ok := s.graph.Resolve(s.ref); !ok {
		// The ref shown before was deleted.
		s.ref = headName
	}
	s.showHistory(s.ref)
	return true
}

// showRef shows the history of the first candidate that names a ref or
// commit exactly. An abbreviated commit id is only tried after all of them.
func (s *session) showRef(name string, candidates []string) {
	for _, candidate := range candidates {
		if _, ok := s.graph.ResolveExact(candidate); ok {
			s.showHistory(candidate)
			return
		}
	}
	if _, ok := s.graph.Resolve(name); ok {
		s.showHistory(name)
		return
	}
	s.render.notice(s.out, fmt.Sprintf("Unknown reference: %s", name))
}

func qualified(name string, prefixes []string) []string {
	names := make([]string, 0, len(prefixes)+1)
	for _, prefix := range prefixes {
		names = append(names, prefix+name)
	}
	return names
}

func (s *session) showHistory(ref string) {
	s.ref = ref
	s.history = s.graph.LinearHistory(ref)
	s.shown = 0
	s.render.title(s.out, "History of "+displayRef(ref))
	if len(s.history) == 0 {
		s.render.history(s.out, nil, s.graph)
		return
	}
	s.more()
}

func (s *session) more() {
	if s.shown >= len(s.history) {
		s.render.notice(s.out, "No more commits.")
		return
	}
	end := len(s.history)
	if s.limit > 0 {
		end = min(end, s.shown+s.limit)
	}
	s.render.history(s.out, s.history[s.shown:end], s.graph)
	s.shown = end
	if rest := len(s.history) - s.shown; rest > 0 {
		s.render.notice(s.out, fmt.Sprintf("(%d more, type n to continue)", rest))
	}
}

func (s *session) detail(arg string) {
	if arg == "" {
		if len(s.history) == 0 {
			s.render.notice(s.out, "Select a commit to view details")
			return
		}
		s.render.commitDetail(s.out, s.history[0])
		return
	}
	c, ok := s.graph.Commit(arg)
	if !ok {
		s.render.notice(s.out, fmt.Sprintf("Unknown commit: %s", arg))
		return
	}
	s.render.commitDetail(s.out, c)
}

func (s *session) filter(query string) {
	matches := filterCommits(s.history, query)
	s.render.title(s.out, fmt.Sprintf("History of %s matching %q", displayRef(s.ref), query))
	s.render.history(s.out, matches, s.graph)
}

func filterCommits(commits []git.Commit, query string) []git.Commit {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return commits
	}
	var filtered []git.Commit
	for _, c := range commits {
		if strings.Contains(searchText(c), q) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func searchText(c git.Commit) string {
	return strings.ToLower(strings.Join([]string{c.ID, c.Message, c.Author.Name, c.Author.Email}, "\n"))
}

func displayRef(ref string) string {
	for _, prefix := range refPrefixes {
		if short, ok := strings.CutPrefix(ref, prefix); ok {
			return short
		}
	}
	if len(ref) > 7 && !strings.Contains(ref, "/") {
		return git.Commit{ID: ref}.ShortID()
	}
	return ref
}
