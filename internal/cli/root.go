// Package cli implements the changemoji command line: the root command
// generates the changelog, watch regenerates it on ref changes, and
// version/config report on the installation.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/amoutonbrady/changemoji/internal/config"
	clierrors "github.com/amoutonbrady/changemoji/internal/errors"
	"github.com/spf13/cobra"
)

// Command group IDs for help output.
const (
	GroupGenerate      = "generate"
	GroupConfiguration = "configuration"
)

// rootOptions holds the flag values shared by the root command and its
// subcommands.
type rootOptions struct {
	configPath string
	output     string
	format     string
	title      string
	provider   string
	jobs       int
	debug      bool
	plain      bool

	dryRun  bool
	diff    bool
	summary bool
}

// NewRootCmd builds the changemoji command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "changemoji [path]",
		Short: "Generate an emoji-categorized CHANGELOG.md from git tags and commits",
		Long: `changemoji reads the tags and commits of a git repository and writes a
CHANGELOG.md with one section per release. Commits are grouped by the emoji or
shortcode in their subject:

  New feature       :sparkles: ✨ 🎉 🚀 🆕
  Bug fix           :bug: 🐛
  UI improvements   :art: 🎨 📝 💄 🔖
  Internal          :construction: 🚧 👷 🔧 🔨 🌐 🛠️ 🔩
  Other             everything else

Releases run from the first commit through every tag to HEAD, newest first.

A repository directory named like a subcommand (watch, doctor, config,
version, v) must be given as a path: changemoji ./config`,
		Example: `  # Write CHANGELOG.md for the repository in the current directory
  changemoji

  # Preview without writing
  changemoji --dry-run

  # Show what a regeneration would change in CHANGELOG.md
  changemoji --diff

  # Another repository, custom output file, summary table
  changemoji ../api -o docs/CHANGES.md --summary

  # YAML export using the git executable
  changemoji --format yaml --provider cli -o changelog.yml`,
		Args:          maxOnePath,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, repoPath(args))
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "project config file (default: <path>/.changemoji.yml)")
	pf.StringVarP(&opts.output, "output", "o", config.DefaultOutput, "file the changelog is written to")
	pf.StringVar(&opts.format, "format", config.DefaultFormat, "output format: markdown or yaml")
	pf.StringVar(&opts.title, "title", config.DefaultTitle, "document title")
	pf.StringVar(&opts.provider, "provider", config.DefaultProvider, "history provider: gogit or cli")
	pf.IntVar(&opts.jobs, "jobs", config.DefaultJobs, "release ranges collected concurrently")
	pf.BoolVar(&opts.debug, "debug", false, "debug logging and full error details")
	pf.BoolVar(&opts.plain, "plain", false, "no colors, icons or spinner")

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print a preview instead of writing the file")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "show how the output file would change instead of writing it")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print a table of commits per category")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierrors.NewArgumentError(err.Error(), "Run 'changemoji --help' for usage")
	})

	cmd.AddGroup(
		&cobra.Group{ID: GroupGenerate, Title: "Generation:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)
	cmd.AddCommand(newWatchCmd(opts), newDoctorCmd(opts), newConfigCmd(opts), newVersionCmd(opts))

	return cmd
}

var rootCmd = NewRootCmd()

// Execute runs the CLI and prints any error. The command context is
// cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		debug, _ := rootCmd.PersistentFlags().GetBool("debug")
		plain, _ := rootCmd.PersistentFlags().GetBool("plain")
		clierrors.FprintError(rootCmd.ErrOrStderr(), err, clierrors.PrintOptions{Debug: debug, Plain: plain})
	}
	return err
}

func maxOnePath(cmd *cobra.Command, args []string) error {
	if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
		return clierrors.NewArgumentError(err.Error(), "Usage: "+cmd.UseLine())
	}
	return nil
}

func repoPath(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
