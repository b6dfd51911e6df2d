package cli

import (
	"fmt"

	clierrors "github.com/amoutonbrady/changemoji/internal/errors"
	"github.com/amoutonbrady/changemoji/internal/health"
	"github.com/amoutonbrady/changemoji/internal/progress"
	"github.com/spf13/cobra"
)

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [path]",
		Short: "Check that a changelog can be generated for the repository",
		Long: `Check that the path is a git repository with readable history, list the
tags releases will be cut from, and verify the git executable used by the
cli provider.`,
		Example: `  changemoji doctor
  changemoji doctor ../api --provider cli`,
		Args:    maxOnePath,
		GroupID: GroupConfiguration,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := repoPath(args)
			s, err := newSession(cmd, opts, path)
			if err != nil {
				return err
			}

			report := health.RunHealthChecks(cmd.Context(), health.Options{
				Path:      path,
				Provider:  s.cfg.Provider,
				GitBinary: s.cfg.GitBinary,
			})

			caps := terminalOf(s.stdout)
			if opts.plain {
				caps.SupportsUnicode = false
			}
			fmt.Fprint(s.stdout, health.FormatReport(report, progress.SelectSymbols(caps)))

			if !report.Passed {
				return clierrors.NewPrerequisiteError("health checks failed",
					"Fix the failed checks listed above")
			}
			return nil
		},
	}
}
