package cli

import (
	"context"
	"fmt"

	clierrors "github.com/amoutonbrady/changemoji/internal/errors"
	"github.com/amoutonbrady/changemoji/internal/git"
	"github.com/amoutonbrady/changemoji/internal/watch"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [path]",
		Short: "Regenerate the changelog whenever HEAD, a branch or a tag changes",
		Long: `Generate the changelog, then watch .git/HEAD, .git/refs/heads and
.git/refs/tags and regenerate it after every change (committing, tagging,
checking out). Bursts of changes are coalesced by watch_debounce. A failed
regeneration is logged and watching continues. Stop with Ctrl+C.`,
		Example: `  # Keep CHANGELOG.md current while working
  changemoji watch

  # Wait two seconds for changes to settle
  CHANGEMOJI_WATCH_DEBOUNCE=2s changemoji watch`,
		Args:    maxOnePath,
		GroupID: GroupGenerate,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, repoPath(args))
		},
	}
}

func runWatch(cmd *cobra.Command, opts *rootOptions, path string) error {
	s, err := newSession(cmd, opts, path)
	if err != nil {
		return err
	}
	if !git.IsRepository(path) {
		return clierrors.NotARepository(path)
	}

	gitDir, err := git.GitDir(path)
	if err != nil {
		return clierrors.ProviderFailure(err)
	}

	w, err := watch.NewRefWatcher(gitDir, s.cfg.WatchDebounce, s.logger)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "cannot watch repository")
	}
	defer w.Close()

	regenerate := func(ctx context.Context) (int, error) {
		cl, err := s.generate(ctx)
		if err != nil {
			return 0, err
		}
		return s.write(cl)
	}

	if _, err := regenerate(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(s.stderr, "Watching %s for ref changes (Ctrl+C to stop)\n", gitDir)

	return w.Run(cmd.Context(), func(ctx context.Context) error {
		n, err := regenerate(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.stderr, "Updated %s (%s)\n", s.cfg.Output, humanize.Bytes(uint64(n)))
		return nil
	})
}
