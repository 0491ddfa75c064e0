package git

import (
	"strings"
	"testing"
	"time"
)

func TestCommitShortID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want string
	}{
		{id: "abcdef1234567890", want: "abcdef1"},
		{id: "abcdef1", want: "abcdef1"},
		{id: "abc", want: "abc"},
		{id: "", want: ""},
	}
	for _, tt := range tests {
		got := Commit{ID: tt.id}.ShortID()
		if got != tt.want {
			t.Fatalf("ShortID(%q) = %q, want %q", tt.id, got, tt.want)
		}
		if got != (Commit{ID: got}).ShortID() {
			t.Fatalf("ShortID not idempotent for %q", tt.id)
		}
	}
}

func TestCommitShortMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "long_first_line",
			message: "A very long message that exceeds fifty characters in the first line\nsecond line",
			want:    "A very long message that exceeds fifty characte...",
		},
		{name: "short_first_line", message: "Fix bug\n\nDetails here", want: "Fix bug"},
		{name: "exactly_fifty", message: strings.Repeat("x", 50), want: strings.Repeat("x", 50)},
		{name: "fifty_one", message: strings.Repeat("x", 51), want: strings.Repeat("x", 47) + "..."},
		{name: "crlf", message: "Windows line\r\nnext", want: "Windows line"},
		{name: "empty", message: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Commit{Message: tt.message}.ShortMessage()
			if got != tt.want {
				t.Fatalf("ShortMessage() = %q, want %q", got, tt.want)
			}
			if n := len([]rune(got)); n > 50 {
				t.Fatalf("ShortMessage() length = %d, want <= 50", n)
			}
		})
	}
}

func TestCommitParentPredicates(t *testing.T) {
	t.Parallel()

	root := Commit{ID: "a"}
	if !root.IsRoot() || root.IsMerge() {
		t.Fatalf("root commit: IsRoot=%v IsMerge=%v", root.IsRoot(), root.IsMerge())
	}
	linear := Commit{ID: "b", ParentIDs: []string{"a"}}
	if linear.IsRoot() || linear.IsMerge() {
		t.Fatalf("linear commit: IsRoot=%v IsMerge=%v", linear.IsRoot(), linear.IsMerge())
	}
	merge := Commit{ID: "c", ParentIDs: []string{"a", "b"}}
	if merge.IsRoot() || !merge.IsMerge() {
		t.Fatalf("merge commit: IsRoot=%v IsMerge=%v", merge.IsRoot(), merge.IsMerge())
	}
}

func TestCommitAuthorIsCommitter(t *testing.T) {
	t.Parallel()

	alice := Signature{Name: "Alice", Email: "alice@example.com", Time: 100, TimeOffset: 60}
	same := alice
	if !(Commit{Author: alice, Committer: same}).AuthorIsCommitter() {
		t.Fatal("expected structurally equal signatures to match")
	}
	later := alice
	later.Time++
	if (Commit{Author: alice, Committer: later}).AuthorIsCommitter() {
		t.Fatal("expected different times to differ")
	}
}

func TestCommitEqual(t *testing.T) {
	t.Parallel()

	a := Commit{ID: "x", Message: "m", ParentIDs: []string{"p1", "p2"}}
	b := Commit{ID: "x", Message: "m", ParentIDs: []string{"p1", "p2"}}
	if !a.Equal(b) {
		t.Fatal("expected equal commits")
	}
	c := Commit{ID: "x", Message: "m", ParentIDs: []string{"p2", "p1"}}
	if a.Equal(c) {
		t.Fatal("parent order must be significant")
	}
}

func TestSignatureWhenUsesOwnOffset(t *testing.T) {
	t.Parallel()

	sig := Signature{Name: "Bob", Email: "bob@example.com", Time: 1700000000, TimeOffset: -150}
	when := sig.When()
	if _, offset := when.Zone(); offset != -150*60 {
		t.Fatalf("offset = %d, want %d", offset, -150*60)
	}
	if !when.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("When() = %v, want instant %v", when, time.Unix(1700000000, 0).UTC())
	}
	if got := when.Format("15:04 -0700"); got != "19:43 -0230" {
		t.Fatalf("formatted = %q, want %q", got, "19:43 -0230")
	}
	if got := sig.String(); got != "Bob <bob@example.com>" {
		t.Fatalf("String() = %q", got)
	}
}

func TestBranchShorthand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		shorthand string
		remote    bool
	}{
		{name: "refs/heads/main", shorthand: "main"},
		{name: "refs/heads/feature/x", shorthand: "feature/x"},
		{name: "refs/remotes/origin/main", shorthand: "origin/main", remote: true},
		{name: "main", shorthand: "main"},
	}
	for _, tt := range tests {
		b := Branch{Name: tt.name}
		if got := b.Shorthand(); got != tt.shorthand {
			t.Fatalf("Shorthand(%q) = %q, want %q", tt.name, got, tt.shorthand)
		}
		if got := b.IsRemote(); got != tt.remote {
			t.Fatalf("IsRemote(%q) = %v, want %v", tt.name, got, tt.remote)
		}
	}
}

func TestTagShorthand(t *testing.T) {
	t.Parallel()

	if got := (Tag{Name: "refs/tags/v1.0"}).Shorthand(); got != "v1.0" {
		t.Fatalf("Shorthand() = %q, want %q", got, "v1.0")
	}
	if got := (Tag{Name: "refs/tags/release/2024"}).Shorthand(); got != "release/2024" {
		t.Fatalf("Shorthand() = %q, want %q", got, "release/2024")
	}
}

func TestHeadInfoIsDetached(t *testing.T) {
	t.Parallel()

	for state, want := range map[HeadState]bool{
		HeadNormal:   false,
		HeadDetached: true,
		HeadUnborn:   false,
	} {
		if got := (HeadInfo{State: state}).IsDetached(); got != want {
			t.Fatalf("IsDetached(%s) = %v, want %v", state, got, want)
		}
	}
}
