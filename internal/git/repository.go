package git

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

const (
	// maxPeelDepth bounds tag-of-tag chains while peeling to a commit.
	maxPeelDepth = 8
	// minAbbrevLength matches git's shortest accepted abbreviated object name.
	minAbbrevLength = 4
	fullIDLength    = 40
)

// Repository is a read-only view over a go-git repository.
type Repository struct {
	repo *gitlib.Repository

	// path is empty for repositories that were not opened from disk.
	path     string
	discover bool
}

// Open opens the repository rooted exactly at repoPath.
func Open(repoPath string) (*Repository, error) {
	return open(repoPath, false)
}

// Discover opens the repository containing start, searching parent
// directories for the enclosing repository root.
func Discover(start string) (*Repository, error) {
	return open(start, true)
}

// NewRepository wraps an already opened repository, e.g. one backed by
// in-memory storage. Reload is a no-op for such repositories.
func NewRepository(repo *gitlib.Repository) *Repository {
	return &Repository{repo: repo}
}

func open(repoPath string, discover bool) (*Repository, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w: %w", repoPath, ErrInvalidRepository, err)
	}
	repo, err := plainOpen(abs, discover)
	if err != nil {
		return nil, err
	}
	return &Repository{repo: repo, path: abs, discover: discover}, nil
}

func plainOpen(abs string, discover bool) (*gitlib.Repository, error) {
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: discover})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w: %w", abs, ErrInvalidRepository, err)
	}
	return repo, nil
}

func (r *Repository) Path() string {
	return r.path
}

// GitDir returns the directory holding refs and objects, or "" when the
// repository does not live on disk.
func (r *Repository) GitDir() string {
	if r.path == "" {
		return ""
	}
	root := r.path
	if wt, err := r.repo.Worktree(); err == nil && wt.Filesystem != nil {
		root = wt.Filesystem.Root()
	}
	gitDir := filepath.Join(root, gitlib.GitDirName)
	if isDir(gitDir) {
		return gitDir
	}
	// Bare repository.
	return root
}

// Reload reopens the repository to pick up changes made by other processes.
// The previous handle is kept when reopening fails.
func (r *Repository) Reload() error {
	if r.path == "" {
		return nil
	}
	repo, err := plainOpen(r.path, r.discover)
	if err != nil {
		return err
	}
	r.repo = repo
	slog.Debug("repository reloaded", slog.String("path", r.path))
	return nil
}

// Commits returns every commit reachable from any reference, keyed by id.
// References that do not lead to a commit are skipped. The walk stops at
// shallow boundaries and at parents missing from the object store; such
// commits keep their ParentIDs.
func (r *Repository) Commits() (map[string]Commit, error) {
	boundary, err := r.shallowBoundary()
	if err != nil {
		return nil, err
	}
	refs, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer refs.Close()

	commits := map[string]Commit{}
	// seen is shared across references so overlapping history is walked once.
	seen := map[plumbing.Hash]bool{}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		hash, ok := r.peelReference(ref)
		if !ok || seen[hash] {
			return nil
		}
		return r.walkCommits(hash, seen, boundary, func(c *object.Commit) {
			commits[c.Hash.String()] = newCommit(c)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("walk commits: %w", err)
	}
	return commits, nil
}

func (r *Repository) shallowBoundary() (map[plumbing.Hash]bool, error) {
	shallow, err := r.repo.Storer.Shallow()
	if err != nil {
		return nil, fmt.Errorf("read shallow commits: %w", err)
	}
	boundary := make(map[plumbing.Hash]bool, len(shallow))
	for _, h := range shallow {
		boundary[h] = true
	}
	return boundary, nil
}

// walkCommits visits start and its ancestors in pre-order, skipping ids in
// seen. Parents of boundary commits are not followed.
func (r *Repository) walkCommits(start plumbing.Hash, seen, boundary map[plumbing.Hash]bool, visit func(*object.Commit)) error {
	stack := []plumbing.Hash{start}
	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[hash] {
			continue
		}
		c, err := r.repo.CommitObject(hash)
		if err != nil {
			if errors.Is(err, plumbing.ErrObjectNotFound) && hash != start {
				slog.Debug("history truncated at missing commit", slog.String("id", hash.String()))
				continue
			}
			return fmt.Errorf("read commit %s: %w", hash, err)
		}
		seen[hash] = true
		visit(c)
		if boundary[hash] {
			continue
		}
		// Reversed so the first parent is visited next.
		for _, parent := range slices.Backward(c.ParentHashes) {
			stack = append(stack, parent)
		}
	}
	return nil
}

// Commit returns the commit with the given id. Abbreviated ids are accepted.
func (r *Repository) Commit(id string) (Commit, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	hash, err := r.resolveCommitID(id)
	if err != nil {
		return Commit{}, err
	}
	obj, err := r.repo.Object(plumbing.AnyObject, hash)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return Commit{}, fmt.Errorf("object %s: %w", id, ErrNotFound)
		}
		return Commit{}, fmt.Errorf("read object %s: %w", id, err)
	}
	c, ok := obj.(*object.Commit)
	if !ok {
		return Commit{}, fmt.Errorf("object %s is a %s: %w", id, obj.Type(), ErrWrongKind)
	}
	return newCommit(c), nil
}

func (r *Repository) resolveCommitID(id string) (plumbing.Hash, error) {
	if !isHex(id) || len(id) < minAbbrevLength || len(id) > fullIDLength {
		return plumbing.ZeroHash, fmt.Errorf("object %q: %w", id, ErrNotFound)
	}
	if len(id) == fullIDLength {
		return plumbing.NewHash(id), nil
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(id))
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) || errors.Is(err, plumbing.ErrObjectNotFound) {
			return plumbing.ZeroHash, fmt.Errorf("object %s: %w", id, ErrNotFound)
		}
		return plumbing.ZeroHash, fmt.Errorf("resolve %s: %w", id, err)
	}
	return *hash, nil
}

// Branches returns local and remote-tracking branches keyed by full ref name.
func (r *Repository) Branches() (map[string]Branch, error) {
	refs, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer refs.Close()

	branches := map[string]Branch{}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		if !name.IsBranch() && !name.IsRemote() {
			return nil
		}
		// refs/remotes/origin/HEAD only mirrors another remote branch.
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		branches[name.String()] = newBranch(ref)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return branches, nil
}

// Branch looks up a local branch first and then a remote-tracking one.
func (r *Repository) Branch(shorthand string) (Branch, error) {
	for _, name := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(shorthand),
		plumbing.ReferenceName(remoteRefPrefix + shorthand),
	} {
		ref, err := r.repo.Reference(name, true)
		if err == nil {
			return Branch{TargetID: ref.Hash().String(), Name: name.String()}, nil
		}
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Branch{}, fmt.Errorf("read branch %s: %w", shorthand, err)
		}
	}
	return Branch{}, fmt.Errorf("branch %s: %w", shorthand, ErrNotFound)
}

// Tags returns all tags keyed by full ref name.
func (r *Repository) Tags() (map[string]Tag, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer refs.Close()

	tags := map[string]Tag{}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		tag, err := r.newTag(ref)
		if err != nil {
			return err
		}
		tags[tag.Name] = tag
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *Repository) Tag(shorthand string) (Tag, error) {
	ref, err := r.repo.Reference(plumbing.NewTagReferenceName(shorthand), false)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Tag{}, fmt.Errorf("tag %s: %w", shorthand, ErrNotFound)
		}
		return Tag{}, fmt.Errorf("read tag %s: %w", shorthand, err)
	}
	return r.newTag(ref)
}

// Head reports the current HEAD state.
func (r *Repository) Head() (HeadInfo, error) {
	head, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return HeadInfo{State: HeadUnborn}, nil
		}
		return HeadInfo{}, fmt.Errorf("resolve HEAD: %w", err)
	}
	if head.Type() == plumbing.HashReference {
		hash, ok := r.peelCommitHash(head.Hash())
		if !ok {
			return HeadInfo{}, fmt.Errorf("HEAD points to %s: %w", head.Hash(), ErrWrongKind)
		}
		return HeadInfo{State: HeadDetached, TargetID: hash.String()}, nil
	}

	target, err := r.repo.Reference(head.Target(), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return HeadInfo{State: HeadUnborn}, nil
		}
		return HeadInfo{}, fmt.Errorf("resolve HEAD: %w", err)
	}
	hash, ok := r.peelCommitHash(target.Hash())
	if !ok {
		return HeadInfo{}, fmt.Errorf("HEAD points to %s: %w", target.Hash(), ErrWrongKind)
	}
	return HeadInfo{State: HeadNormal, TargetID: hash.String(), BranchName: head.Target().String()}, nil
}

// IsEmpty reports whether no reference leads to a commit.
func (r *Repository) IsEmpty() (bool, error) {
	refs, err := r.repo.References()
	if err != nil {
		return false, fmt.Errorf("list references: %w", err)
	}
	defer refs.Close()

	empty := true
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if _, ok := r.peelReference(ref); ok {
			empty = false
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return empty, nil
}

func (r *Repository) newTag(ref *plumbing.Reference) (Tag, error) {
	name := ref.Name().String()
	if ref.Type() != plumbing.HashReference {
		resolved, err := r.repo.Reference(ref.Name(), true)
		if err != nil {
			return Tag{}, fmt.Errorf("reference %s: %w", name, ErrNotFound)
		}
		ref = resolved
	}
	obj, err := r.repo.Object(plumbing.AnyObject, ref.Hash())
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return Tag{}, fmt.Errorf("reference %s: %w", name, ErrNotFound)
		}
		return Tag{}, fmt.Errorf("read reference %s: %w", name, err)
	}
	switch o := obj.(type) {
	case *object.Commit:
		return Tag{TargetID: o.Hash.String(), Name: name}, nil
	case *object.Tag:
		// Annotated tag: one level of indirection.
		return Tag{TargetID: o.Target.String(), Name: name}, nil
	default:
		return Tag{}, fmt.Errorf("reference %s points to a %s: %w", name, obj.Type(), ErrWrongKind)
	}
}

// peelReference follows symbolic references and annotated tags down to a
// commit hash.
func (r *Repository) peelReference(ref *plumbing.Reference) (plumbing.Hash, bool) {
	if ref.Type() == plumbing.SymbolicReference {
		resolved, err := r.repo.Reference(ref.Name(), true)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		ref = resolved
	}
	hash, ok := r.peelCommitHash(ref.Hash())
	if !ok {
		slog.Debug("skipping reference without commit", slog.String("ref", ref.Name().String()))
	}
	return hash, ok
}

func (r *Repository) peelCommitHash(hash plumbing.Hash) (plumbing.Hash, bool) {
	if hash == plumbing.ZeroHash {
		return plumbing.ZeroHash, false
	}
	// Lightweight tags point directly at a commit; annotated tags point at a tag object.
	cur := hash
	for range maxPeelDepth {
		obj, err := r.repo.Object(plumbing.AnyObject, cur)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		switch o := obj.(type) {
		case *object.Commit:
			return o.Hash, true
		case *object.Tag:
			cur = o.Target
		default:
			return plumbing.ZeroHash, false
		}
	}
	return plumbing.ZeroHash, false
}

func newCommit(c *object.Commit) Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return Commit{
		ID:        c.Hash.String(),
		Message:   strings.TrimSpace(c.Message),
		Author:    newSignature(c.Author),
		Committer: newSignature(c.Committer),
		ParentIDs: parents,
	}
}

func newSignature(sig object.Signature) Signature {
	_, offset := sig.When.Zone()
	return Signature{
		Name:       sig.Name,
		Email:      sig.Email,
		Time:       sig.When.Unix(),
		TimeOffset: offset / 60,
	}
}

func newBranch(ref *plumbing.Reference) Branch {
	return Branch{TargetID: ref.Hash().String(), Name: ref.Name().String()}
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
