package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/amoutonbrady/changemoji/internal/changelog"
	"github.com/amoutonbrady/changemoji/internal/config"
	clierrors "github.com/amoutonbrady/changemoji/internal/errors"
	"github.com/amoutonbrady/changemoji/internal/git"
	"github.com/amoutonbrady/changemoji/internal/logging"
	"github.com/amoutonbrady/changemoji/internal/progress"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	validFormats   = []string{"markdown", "yaml"}
	validProviders = []string{"gogit", "cli"}
)

// session is one configured run against a repository.
type session struct {
	path   string
	cfg    *config.Configuration
	logger *slog.Logger
	opts   *rootOptions
	stdout io.Writer
	stderr io.Writer
}

func newSession(cmd *cobra.Command, opts *rootOptions, path string) (*session, error) {
	if err := opts.validate(cmd); err != nil {
		return nil, err
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectDir:        path,
		ProjectConfigPath: opts.configPath,
		Overrides:         opts.overrides(cmd),
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		JSON:   cfg.LogJSON,
		Writer: cmd.ErrOrStderr(),
		Color:  !opts.plain && terminalOf(cmd.ErrOrStderr()).SupportsColor,
	})
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}
	logger.Debug("configuration loaded",
		slog.String("path", path),
		slog.String("provider", cfg.Provider),
		slog.String("format", cfg.Format),
		slog.Int("jobs", cfg.Jobs))

	return &session{
		path:   path,
		cfg:    cfg,
		logger: logger,
		opts:   opts,
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}, nil
}

// validate rejects flag values config validation would also reject, so the
// error names the flag instead of a config key.
func (o *rootOptions) validate(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("format") && !slices.Contains(validFormats, o.format) {
		return clierrors.InvalidFlagValue("format", o.format, validFormats...)
	}
	if flags.Changed("provider") && !slices.Contains(validProviders, o.provider) {
		return clierrors.InvalidFlagValue("provider", o.provider, validProviders...)
	}
	if flags.Changed("jobs") && o.jobs < 1 {
		return clierrors.InvalidFlagValue("jobs", strconv.Itoa(o.jobs), "any integer >= 1")
	}
	if o.dryRun && o.diff {
		return clierrors.NewArgumentError("--dry-run and --diff cannot be combined",
			"Use --dry-run to preview the changelog or --diff to compare it with the existing file")
	}
	return nil
}

// overrides returns the config keys of flags set on the command line.
func (o *rootOptions) overrides(cmd *cobra.Command) map[string]any {
	flags := cmd.Flags()
	m := map[string]any{}

	for flag, value := range map[string]any{
		"output":   o.output,
		"format":   o.format,
		"title":    o.title,
		"provider": o.provider,
		"jobs":     o.jobs,
	} {
		if flags.Changed(flag) {
			m[flag] = value
		}
	}
	if o.debug {
		m["log_level"] = "debug"
	}
	return m
}

func runGenerate(cmd *cobra.Command, opts *rootOptions, path string) error {
	s, err := newSession(cmd, opts, path)
	if err != nil {
		return err
	}

	cl, err := s.generate(cmd.Context())
	if err != nil {
		return err
	}

	switch {
	case opts.dryRun:
		err = s.preview(cl)
	case opts.diff:
		err = s.diff(cl)
	default:
		_, err = s.write(cl)
	}
	if err != nil {
		return err
	}

	if opts.summary {
		fmt.Fprintln(s.stdout, changelog.Summary(cl))
	}
	return nil
}

// generate reads the repository history and assembles the changelog.
func (s *session) generate(ctx context.Context) (*changelog.Changelog, error) {
	if !git.IsRepository(s.path) {
		return nil, clierrors.NotARepository(s.path)
	}

	provider, err := s.provider()
	if err != nil {
		return nil, clierrors.ProviderFailure(err)
	}

	sp := progress.NewSpinner(s.stderr, terminalOf(s.stderr), !s.opts.debug && !s.opts.plain)
	sp.Start("Reading git history")

	gen := changelog.NewGenerator(provider,
		changelog.WithTitle(s.cfg.Title),
		changelog.WithJobs(s.cfg.Jobs),
		changelog.WithLogger(s.logger),
	)
	cl, err := gen.Generate(ctx)
	if err != nil {
		sp.Fail("Reading git history failed")
		return nil, clierrors.ProviderFailure(err)
	}
	sp.Update("Checking changelog")
	if err := changelog.Validate(cl); err != nil {
		sp.Fail("Changelog is inconsistent")
		return nil, clierrors.WrapWithMessage(err, clierrors.Runtime, "generated changelog failed validation")
	}

	sp.Succeed(fmt.Sprintf("Collected %d commits in %d releases", cl.GetCommitCount(), len(cl.Releases)))
	s.logger.Info("changelog generated",
		slog.Int("releases", len(cl.Releases)),
		slog.Int("commits", cl.GetCommitCount()))
	return cl, nil
}

func (s *session) provider() (changelog.Provider, error) {
	switch s.cfg.Provider {
	case "cli":
		return git.NewCLI(s.path, git.WithBinary(s.cfg.GitBinary), git.WithLogger(s.logger)), nil
	default:
		repo, err := git.Open(s.path, git.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
}

// render encodes the changelog in the configured format.
func (s *session) render(cl *changelog.Changelog) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch s.cfg.Format {
	case "yaml":
		err = changelog.RenderYAML(cl, &buf)
	default:
		err = changelog.RenderMarkdown(cl, &buf)
	}
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Runtime, "rendering changelog")
	}
	return buf.Bytes(), nil
}

// write renders fully before touching the output file, which is replaced
// in a single write. It returns the number of bytes written.
func (s *session) write(cl *changelog.Changelog) (int, error) {
	data, err := s.render(cl)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(s.cfg.Output, data, 0o644); err != nil {
		return 0, clierrors.FileNotWritable(s.cfg.Output, err)
	}
	s.logger.Info("changelog written",
		slog.String("output", s.cfg.Output),
		slog.String("size", humanize.Bytes(uint64(len(data)))))
	return len(data), nil
}

// diff prints how the output file would change without writing it. A
// missing output file compares as empty.
func (s *session) diff(cl *changelog.Changelog) error {
	data, err := s.render(cl)
	if err != nil {
		return err
	}
	current, err := os.ReadFile(s.cfg.Output)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "reading "+s.cfg.Output)
	}

	plain := s.opts.plain || !terminalOf(s.stdout).SupportsColor
	stats, err := changelog.WriteDiff(s.stdout, string(current), string(data), plain)
	if err != nil {
		return err
	}
	if !stats.Changed() {
		fmt.Fprintf(s.stdout, "%s is up to date\n", s.cfg.Output)
		return nil
	}
	fmt.Fprintf(s.stdout, "%s: %d lines added, %d removed\n", s.cfg.Output, stats.Added, stats.Removed)
	return nil
}

// preview prints the changelog instead of writing it: a styled listing for
// markdown, the document itself for yaml.
func (s *session) preview(cl *changelog.Changelog) error {
	if s.cfg.Format == "yaml" {
		data, err := s.render(cl)
		if err != nil {
			return err
		}
		_, err = s.stdout.Write(data)
		return err
	}

	caps := terminalOf(s.stdout)
	return changelog.FormatTerminal(cl, s.stdout, changelog.FormatOptions{
		Plain:    s.opts.plain || !caps.SupportsColor,
		MaxWidth: caps.Width,
	})
}

// terminalOf reports the capabilities of w when it is a terminal file.
func terminalOf(w io.Writer) progress.TerminalCapabilities {
	if f, ok := w.(*os.File); ok {
		return progress.DetectTerminalCapabilities(f)
	}
	return progress.TerminalCapabilities{}
}
