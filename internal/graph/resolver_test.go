package graph

import (
	"strings"
	"testing"

	"github.com/thiagokokada/gittergraph/internal/git"
)

const (
	idK = "1234567890abcdef1234567890abcdef12345678"
	idJ = "1234aaaa90abcdef1234567890abcdef12345678"
	idL = "fedcba0987654321fedcba0987654321fedcba09"
)

func newTestResolver(head git.HeadInfo) *Resolver {
	return NewResolver(
		commitMap(commit(idK), commit(idJ), commit(idL)),
		map[string]git.Branch{
			"refs/heads/main": {TargetID: idK, Name: "refs/heads/main"},
			// A branch literally named like a commit id must lose to the commit.
			idL: {TargetID: idK, Name: idL},
		},
		map[string]git.Tag{
			"refs/tags/v1":    {TargetID: idJ, Name: "refs/tags/v1"},
			"refs/heads/main": {TargetID: idL, Name: "refs/heads/main"},
		},
		head,
	)
}

func TestResolvePrecedence(t *testing.T) {
	t.Parallel()

	r := newTestResolver(git.HeadInfo{State: git.HeadNormal, TargetID: idK, BranchName: "refs/heads/main"})

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{name: "HEAD", want: idK, wantOK: true},
		{name: idK, want: idK, wantOK: true},
		{name: idL, want: idL, wantOK: true},
		{name: "refs/heads/main", want: idK, wantOK: true},
		{name: "refs/tags/v1", want: idJ, wantOK: true},
		{name: "nonexistent-name"},
		{name: strings.Repeat("0", 40)},
		{name: "main"},
		{name: "head"},
		{name: ""},
	}
	for _, tt := range tests {
		got, ok := r.Resolve(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("Resolve(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestResolveAbbreviatedID(t *testing.T) {
	t.Parallel()

	r := newTestResolver(git.HeadInfo{State: git.HeadUnborn})

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{name: "fedc", want: idL, wantOK: true},
		{name: idK[:7], want: idK, wantOK: true},
		{name: idJ[:8], want: idJ, wantOK: true},
		// Shared by idK and idJ.
		{name: "1234"},
		{name: "fed"},
		{name: "FEDCBA0"},
		{name: "fedcbz0"},
		{name: "ffff"},
	}
	for _, tt := range tests {
		got, ok := r.Resolve(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("Resolve(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestResolveHeadStates(t *testing.T) {
	t.Parallel()

	if got, ok := newTestResolver(git.HeadInfo{State: git.HeadUnborn}).Resolve("HEAD"); ok || got != "" {
		t.Fatalf("Resolve(HEAD) on unborn = %q, %v; want absent", got, ok)
	}
	detached := newTestResolver(git.HeadInfo{State: git.HeadDetached, TargetID: idL})
	if got, ok := detached.Resolve("HEAD"); !ok || got != idL {
		t.Fatalf("Resolve(HEAD) on detached = %q, %v; want %q", got, ok, idL)
	}
}

func TestResolveExactIgnoresAbbreviations(t *testing.T) {
	t.Parallel()

	r := newTestResolver(git.HeadInfo{State: git.HeadNormal, TargetID: idK, BranchName: "refs/heads/main"})

	if _, ok := r.ResolveExact(idL[:8]); ok {
		t.Fatal("ResolveExact accepted an abbreviated id")
	}
	if id, ok := r.Resolve(idL[:8]); !ok || id != idL {
		t.Fatalf("Resolve(%q) = %q, %v; want %q", idL[:8], id, ok, idL)
	}
	for name, want := range map[string]string{
		"HEAD":            idK,
		idJ:               idJ,
		"refs/heads/main": idK,
		"refs/tags/v1":    idJ,
	} {
		if got, ok := r.ResolveExact(name); !ok || got != want {
			t.Fatalf("ResolveExact(%q) = %q, %v; want %q", name, got, ok, want)
		}
	}
}
