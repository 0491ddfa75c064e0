// Package gittest builds small repositories for tests without shelling out
// to the git executable.
package gittest

import (
	"strconv"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// DefaultBranch is the branch HEAD is attached to in new repositories.
const DefaultBranch = "main"

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("", 2*60*60))

type Repo struct {
	tb testing.TB

	Repo *gitlib.Repository
	// Dir is empty for in-memory repositories.
	Dir string

	emptyTree plumbing.Hash
	clock     int
}

// New initializes an on-disk repository in a temporary directory with HEAD
// attached to the unborn DefaultBranch.
func New(tb testing.TB) *Repo {
	tb.Helper()
	dir := tb.TempDir()
	repo, err := gitlib.PlainInit(dir, false)
	if err != nil {
		tb.Fatalf("PlainInit: %v", err)
	}
	return setup(tb, repo, dir)
}

// NewMemory initializes a repository backed by in-memory storage.
func NewMemory(tb testing.TB) *Repo {
	tb.Helper()
	repo, err := gitlib.Init(memory.NewStorage(), memfs.New())
	if err != nil {
		tb.Fatalf("Init: %v", err)
	}
	return setup(tb, repo, "")
}

func setup(tb testing.TB, repo *gitlib.Repository, dir string) *Repo {
	tb.Helper()
	r := &Repo{tb: tb, Repo: repo, Dir: dir}
	r.AttachHead(DefaultBranch)
	r.emptyTree = r.store(&object.Tree{})
	return r
}

// Signature returns a deterministic signature; each call advances the clock
// by one minute so that otherwise identical commits get distinct ids.
func (r *Repo) Signature(name string) object.Signature {
	r.clock++
	return object.Signature{
		Name:  name,
		Email: name + "@example.com",
		When:  epoch.Add(time.Duration(r.clock) * time.Minute),
	}
}

// Commit writes a commit with an empty tree and the given parents.
func (r *Repo) Commit(message string, parents ...plumbing.Hash) plumbing.Hash {
	r.tb.Helper()
	sig := r.Signature("alice")
	return r.CommitWith(&object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		ParentHashes: parents,
	})
}

// CommitWith writes c, filling in the tree when unset.
func (r *Repo) CommitWith(c *object.Commit) plumbing.Hash {
	r.tb.Helper()
	if c.TreeHash == plumbing.ZeroHash {
		c.TreeHash = r.emptyTree
	}
	return r.store(c)
}

// Chain writes n commits, each the sole parent of the next, and returns
// their ids oldest first.
func (r *Repo) Chain(n int, parent ...plumbing.Hash) []plumbing.Hash {
	r.tb.Helper()
	hashes := make([]plumbing.Hash, 0, n)
	for i := range n {
		h := r.Commit("commit "+strconv.Itoa(i), parent...)
		hashes = append(hashes, h)
		parent = []plumbing.Hash{h}
	}
	return hashes
}

// EmptyTree returns the id of the empty tree object.
func (r *Repo) EmptyTree() plumbing.Hash {
	return r.emptyTree
}

// Branch points refs/heads/name at target.
func (r *Repo) Branch(name string, target plumbing.Hash) {
	r.tb.Helper()
	r.SetRef(plumbing.NewBranchReferenceName(name), target)
}

// RemoteBranch points refs/remotes/remote/name at target.
func (r *Repo) RemoteBranch(remote, name string, target plumbing.Hash) {
	r.tb.Helper()
	r.SetRef(plumbing.NewRemoteReferenceName(remote, name), target)
}

// LightweightTag points refs/tags/name at target.
func (r *Repo) LightweightTag(name string, target plumbing.Hash) {
	r.tb.Helper()
	if _, err := r.Repo.CreateTag(name, target, nil); err != nil {
		r.tb.Fatalf("CreateTag %s: %v", name, err)
	}
}

// AnnotatedTag creates a tag object for target and returns the tag object id.
func (r *Repo) AnnotatedTag(name string, target plumbing.Hash) plumbing.Hash {
	r.tb.Helper()
	tagger := r.Signature("tagger")
	ref, err := r.Repo.CreateTag(name, target, &gitlib.CreateTagOptions{
		Tagger:  &tagger,
		Message: "release " + name,
	})
	if err != nil {
		r.tb.Fatalf("CreateTag %s: %v", name, err)
	}
	return ref.Hash()
}

// SetRef writes a hash reference without any validation of the target.
func (r *Repo) SetRef(name plumbing.ReferenceName, target plumbing.Hash) {
	r.tb.Helper()
	if err := r.Repo.Storer.SetReference(plumbing.NewHashReference(name, target)); err != nil {
		r.tb.Fatalf("SetReference %s: %v", name, err)
	}
}

// AttachHead makes HEAD a symbolic reference to refs/heads/branch.
func (r *Repo) AttachHead(branch string) {
	r.tb.Helper()
	ref := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	if err := r.Repo.Storer.SetReference(ref); err != nil {
		r.tb.Fatalf("SetReference HEAD: %v", err)
	}
}

// DetachHead points HEAD directly at target.
func (r *Repo) DetachHead(target plumbing.Hash) {
	r.tb.Helper()
	r.SetRef(plumbing.HEAD, target)
}

func (r *Repo) store(obj interface {
	Encode(plumbing.EncodedObject) error
}) plumbing.Hash {
	r.tb.Helper()
	encoded := r.Repo.Storer.NewEncodedObject()
	if err := obj.Encode(encoded); err != nil {
		r.tb.Fatalf("encode object: %v", err)
	}
	h, err := r.Repo.Storer.SetEncodedObject(encoded)
	if err != nil {
		r.tb.Fatalf("store object: %v", err)
	}
	return h
}
