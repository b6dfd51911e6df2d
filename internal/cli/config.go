package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/amoutonbrady/changemoji/internal/config"
	clierrors "github.com/amoutonbrady/changemoji/internal/errors"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create changemoji configuration",
		Long: `Show or create changemoji configuration.

Configuration is loaded with the following priority (highest to lowest):
  1. Command line flags
  2. Environment variables (CHANGEMOJI_*)
  3. Project config (<path>/.changemoji.yml, or legacy .changemoji.json)
  4. User config (~/.config/changemoji/config.yml)
  5. Built-in defaults`,
		Example: `  # Show the effective configuration
  changemoji config show

  # Create .changemoji.yml in the current repository
  changemoji config init`,
		GroupID: GroupConfiguration,
	}
	cmd.AddCommand(newConfigShowCmd(opts), newConfigInitCmd())
	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [path]",
		Short: "Print the effective configuration",
		Args:  maxOnePath,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts, repoPath(args))
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Key", "Value"})
			t.AppendRows([]table.Row{
				{"output", s.cfg.Output},
				{"format", s.cfg.Format},
				{"title", s.cfg.Title},
				{"provider", s.cfg.Provider},
				{"git_binary", s.cfg.GitBinary},
				{"jobs", strconv.Itoa(s.cfg.Jobs)},
				{"log_level", s.cfg.LogLevel},
				{"log_json", strconv.FormatBool(s.cfg.LogJSON)},
				{"watch_debounce", s.cfg.WatchDebounce.String()},
			})
			fmt.Fprintln(s.stdout, t.Render())
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a commented .changemoji.yml with the default values",
		Long: `Write a commented .changemoji.yml with the default values.

If the file already exists it is left unchanged (use --force to overwrite).`,
		Args: maxOnePath,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectConfigPath(repoPath(args))

			if _, err := os.Stat(path); err == nil && !force {
				return clierrors.NewArgumentError(
					fmt.Sprintf("config already exists: %s", path),
					"Use --force to overwrite",
				)
			}
			if err := os.WriteFile(path, []byte(config.DefaultConfigYAML), 0o644); err != nil {
				return clierrors.FileNotWritable(path, err)
			}

			green := color.New(color.FgGreen).SprintFunc()
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", green("✓"), path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}
