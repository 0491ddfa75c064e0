package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gittergraph/internal/buildinfo"
	"github.com/thiagokokada/gittergraph/internal/tui"
)

const noRepositoryMessage = "No git repository found!"

func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

// ErrorMessage formats err for the user.
func ErrorMessage(err error) string {
	if errors.Is(err, tui.ErrNoRepository) {
		return noRepositoryMessage
	}
	return "gittergraph: " + err.Error()
}

func newRootCmd() *cobra.Command {
	var (
		mode    string
		limit   int
		watch   bool
		verbose bool
	)
	cmd := &cobra.Command{
		Use:           "gittergraph [path]",
		Short:         "Git graph visualization in your terminal",
		Long:          "Show the commits, branches, tags and HEAD of the repository enclosing path (default: current directory).",
		Args:          cobra.MaximumNArgs(1),
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repoPath := "."
			if len(args) > 0 {
				repoPath = args[0]
			}
			return tui.Run(cmd.Context(), tui.RunConfig{
				RepoPath:        repoPath,
				ThemePreference: tui.ThemePreferenceFromString(mode),
				Limit:           limit,
				Watch:           watch,
				Verbose:         verbose,
				Stdin:           cmd.InOrStdin(),
				Stdout:          cmd.OutOrStdout(),
			})
		},
	}
	cmd.SetVersionTemplate("gittergraph {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVar(&mode, "mode", tui.ThemeAuto.String(), "color mode: auto, light, dark, or none")
	flags.IntVar(&limit, "limit", 50, "number of commits printed per history page (0 for all)")
	flags.BoolVar(&watch, "watch", false, "reload automatically when the repository changes")
	flags.BoolVar(&verbose, "verbose", false, "enable verbose logging")
	return cmd
}
