// Package tui renders a repository graph as text and runs the interactive
// prompt around it.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/thiagokokada/gittergraph/internal/git"
	"github.com/thiagokokada/gittergraph/internal/graph"
	"github.com/thiagokokada/gittergraph/internal/watch"
)

const (
	prompt       = "gittergraph> "
	defaultLimit = 50
)

// ErrNoRepository is returned by Run when no repository encloses RepoPath.
var ErrNoRepository = errors.New("no git repository found")

// RunConfig describes the parameters that control the terminal runtime.
type RunConfig struct {
	RepoPath        string
	ThemePreference ThemePreference
	// Limit caps how many commits a history view prints; 0 means no limit.
	Limit   int
	Watch   bool
	Verbose bool

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

func Run(ctx context.Context, cfg RunConfig) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if cfg.RepoPath == "" {
		cfg.RepoPath = "."
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Limit < 0 {
		cfg.Limit = defaultLimit
	}

	repo, err := git.Discover(cfg.RepoPath)
	if err != nil {
		if errors.Is(err, git.ErrInvalidRepository) {
			slog.Debug("discover repository", slog.Any("error", err))
			return ErrNoRepository
		}
		return err
	}
	g, err := graph.New(repo)
	if err != nil {
		return fmt.Errorf("load repository: %w", err)
	}
	slog.Debug("repository loaded",
		slog.String("path", repo.Path()),
		slog.Int("commits", len(g.Snapshot().Commits)),
	)

	in, inTTY := terminalFile(cfg.Stdin)
	out, outTTY := terminalFile(cfg.Stdout)
	interactive := inTTY && outTTY
	r := newRenderer(paletteForPreference(cfg.ThemePreference, outTTY))
	s := newSession(g, r, cfg.Stdout, cfg.Limit)

	reloads := make(chan struct{}, 1)
	if cfg.Watch {
		if dir := repo.GitDir(); dir != "" {
			w, err := watch.New(dir, watch.DefaultDelay, watch.DefaultIgnore, func() {
				select {
				case reloads <- struct{}{}:
				default:
				}
			})
			if err != nil {
				slog.Error("auto reload disabled", slog.Any("error", err))
			} else {
				defer func() {
					if err := w.Close(); err != nil {
						slog.Error("watcher close", slog.Any("error", err))
					}
				}()
			}
		}
	}

	if interactive {
		return s.interactive(ctx, in, out, reloads)
	}
	s.overview()
	if !cfg.Watch {
		return nil
	}
	return s.follow(ctx, reloads)
}

func terminalFile(v any) (*os.File, bool) {
	f, ok := v.(*os.File)
	if !ok {
		return nil, false
	}
	return f, term.IsTerminal(int(f.Fd()))
}

// interactive runs the prompt in raw mode on the process terminal.
func (s *session) interactive(ctx context.Context, in, out *os.File, reloads <-chan struct{}) error {
	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		if err := term.Restore(fd, state); err != nil {
			slog.Error("restore terminal", slog.Any("error", err))
		}
	}()
	// Unblocks the pending ReadLine where the file supports deadlines.
	defer func() {
		if err := in.SetReadDeadline(time.Now()); err != nil {
			slog.Debug("interrupt pending read", slog.Any("error", err))
		}
	}()

	screen := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{in, out}, prompt)
	if width, height, err := term.GetSize(int(out.Fd())); err == nil {
		if err := screen.SetSize(width, height); err != nil {
			slog.Debug("set terminal size", slog.Any("error", err))
		}
	}
	return s.prompt(ctx, screen, reloads)
}

// prompt reads commands from screen until quit, EOF or ctx is done. Reload
// requests from the watcher and typed commands are handled on this goroutine
// only. The reader goroutine exits once its pending ReadLine returns.
func (s *session) prompt(ctx context.Context, screen *term.Terminal, reloads <-chan struct{}) error {
	s.out = screen
	s.overview()
	s.render.notice(s.out, "Type ? for help.")

	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			line, err := screen.ReadLine()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case lines <- line:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line := <-lines:
			if s.execute(line) {
				return nil
			}
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		case <-reloads:
			s.reload(true)
		}
	}
}

// follow prints the overview again after every change until ctx is done.
func (s *session) follow(ctx context.Context, reloads <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-reloads:
			if s.reload(false) {
				s.overview()
			}
		}
	}
}
