package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/amoutonbrady/changemoji/internal/build"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for changemoji",
		Example: `  # Show version info
  changemoji version

  # Plain output (for scripts)
  changemoji version --plain`,
		Args:    cobra.NoArgs,
		GroupID: GroupConfiguration,
		Run: func(cmd *cobra.Command, args []string) {
			if opts.plain {
				printPlainVersion(cmd.OutOrStdout())
			} else {
				printPrettyVersion(cmd.OutOrStdout())
			}
		},
	}
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "changemoji %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func printPrettyVersion(w io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	title := "changemoji " + build.Version
	if build.IsDevBuild() {
		title += " (development build)"
	}
	fmt.Fprintf(w, "✨ %s\n", cyan(title))

	info := []struct {
		label string
		value string
	}{
		{"Commit", truncateCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
	for _, row := range info {
		fmt.Fprintf(w, "  %s %s\n", dim(fmt.Sprintf("%-9s", row.label)), row.value)
	}
}

func truncateCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
