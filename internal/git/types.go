package git

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	branchRefPrefix = "refs/heads/"
	remoteRefPrefix = "refs/remotes/"
	tagRefPrefix    = "refs/tags/"

	shortIDLength        = 7
	shortMessageLength   = 50
	shortMessageEllipsis = "..."
)

type Signature struct {
	Name  string
	Email string
	// Time is in unix seconds and TimeOffset in minutes east of UTC.
	Time       int64
	TimeOffset int
}

// When returns the signature time in its own fixed offset, not the local zone.
func (s Signature) When() time.Time {
	return time.Unix(s.Time, 0).In(time.FixedZone("", s.TimeOffset*60))
}

func (s Signature) String() string {
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}

type Commit struct {
	ID        string
	Message   string
	Author    Signature
	Committer Signature
	// ParentIDs[0] is the first parent.
	ParentIDs []string
}

func (c Commit) ShortID() string {
	if len(c.ID) <= shortIDLength {
		return c.ID
	}
	return c.ID[:shortIDLength]
}

// ShortMessage returns the first line of the message, truncated to 50
// characters with a trailing ellipsis.
func (c Commit) ShortMessage() string {
	firstLine, _, _ := strings.Cut(c.Message, "\n")
	firstLine = strings.TrimSuffix(firstLine, "\r")
	if utf8.RuneCountInString(firstLine) <= shortMessageLength {
		return firstLine
	}
	runes := []rune(firstLine)
	return string(runes[:shortMessageLength-len(shortMessageEllipsis)]) + shortMessageEllipsis
}

func (c Commit) IsRoot() bool {
	return len(c.ParentIDs) == 0
}

func (c Commit) IsMerge() bool {
	return len(c.ParentIDs) > 1
}

func (c Commit) AuthorIsCommitter() bool {
	return c.Author == c.Committer
}

func (c Commit) Equal(other Commit) bool {
	return c.ID == other.ID &&
		c.Message == other.Message &&
		c.Author == other.Author &&
		c.Committer == other.Committer &&
		slices.Equal(c.ParentIDs, other.ParentIDs)
}

type Branch struct {
	TargetID string
	Name     string // full ref name: refs/heads/main, refs/remotes/origin/main
}

func (b Branch) IsRemote() bool {
	return strings.HasPrefix(b.Name, remoteRefPrefix)
}

func (b Branch) Shorthand() string {
	return shortRefName(b.Name, remoteRefPrefix, branchRefPrefix)
}

type Tag struct {
	// TargetID is always the commit id, also for annotated tags.
	TargetID string
	Name     string // full ref name: refs/tags/v1.0
}

func (t Tag) Shorthand() string {
	return shortRefName(t.Name, tagRefPrefix)
}

type HeadState uint8

const (
	HeadNormal HeadState = iota
	HeadDetached
	HeadUnborn
)

func (s HeadState) String() string {
	switch s {
	case HeadDetached:
		return "detached"
	case HeadUnborn:
		return "unborn"
	default:
		return "normal"
	}
}

// HeadInfo describes HEAD. TargetID and BranchName are empty when absent.
type HeadInfo struct {
	State      HeadState
	TargetID   string
	BranchName string
}

func (h HeadInfo) IsDetached() bool {
	return h.State == HeadDetached
}

func shortRefName(name string, prefixes ...string) string {
	for _, prefix := range prefixes {
		if short, ok := strings.CutPrefix(name, prefix); ok {
			return short
		}
	}
	return name
}
