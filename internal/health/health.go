// Package health provides the checks behind 'changemoji doctor'. It verifies
// that the target is a git repository with readable history and reports the
// tags releases will be cut from and whether the git executable needed by the
// cli provider is installed.
package health

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/amoutonbrady/changemoji/internal/git"
	"github.com/amoutonbrady/changemoji/internal/progress"
)

// Check names.
const (
	CheckNameRepository = "Repository"
	CheckNameHistory    = "History"
	CheckNameTags       = "Tags"
	CheckNameGit        = "Git executable"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Options selects what RunHealthChecks inspects.
type Options struct {
	// Path is the repository path.
	Path string
	// Provider is the configured history provider ("gogit" or "cli").
	Provider string
	// GitBinary is the executable the cli provider runs.
	GitBinary string
}

// RunHealthChecks runs all health checks and returns a report. History and
// tag checks are skipped when the path is not a repository.
func RunHealthChecks(ctx context.Context, opts Options) *HealthReport {
	report := &HealthReport{Passed: true}
	add := func(c CheckResult) {
		report.Checks = append(report.Checks, c)
		if !c.Passed {
			report.Passed = false
		}
	}

	repoCheck, repo := CheckRepository(opts.Path)
	add(repoCheck)
	if repo != nil {
		add(CheckHistory(ctx, repo))
		add(CheckTags(ctx, repo))
	}
	add(CheckGitBinary(opts.GitBinary, opts.Provider == "cli"))

	return report
}

// CheckRepository opens the repository at path. The repository is nil when
// the check fails.
func CheckRepository(path string) (CheckResult, *git.Repository) {
	repo, err := git.Open(path)
	if err != nil {
		return CheckResult{
			Name:    CheckNameRepository,
			Passed:  false,
			Message: fmt.Sprintf("%s is not a git repository", path),
		}, nil
	}

	msg := "git repository found"
	if dir, err := git.GitDir(path); err == nil {
		msg = "found " + dir
	}
	return CheckResult{Name: CheckNameRepository, Passed: true, Message: msg}, repo
}

// CheckHistory reads the root and HEAD commits.
func CheckHistory(ctx context.Context, repo *git.Repository) CheckResult {
	first, err := repo.FirstCommit(ctx)
	if err != nil {
		return CheckResult{
			Name:    CheckNameHistory,
			Passed:  false,
			Message: "no commits reachable from HEAD",
		}
	}
	last, err := repo.LastCommit(ctx)
	if err != nil {
		return CheckResult{Name: CheckNameHistory, Passed: false, Message: "HEAD commit unreadable"}
	}

	return CheckResult{
		Name:    CheckNameHistory,
		Passed:  true,
		Message: fmt.Sprintf("root %s (%s), HEAD %s (%s)", first.Name, first.Date, last.Name, last.Date),
	}
}

// CheckTags lists tags. No tags is not a failure: the whole history becomes
// a single pre-1.0.0 release.
func CheckTags(ctx context.Context, repo *git.Repository) CheckResult {
	tags, err := repo.ListTags(ctx)
	if err != nil {
		return CheckResult{Name: CheckNameTags, Passed: false, Message: "tags unreadable"}
	}

	switch len(tags) {
	case 0:
		return CheckResult{
			Name:    CheckNameTags,
			Passed:  true,
			Message: "no tags, history will be a single pre-1.0.0 release",
		}
	default:
		latest := tags[len(tags)-1]
		return CheckResult{
			Name:    CheckNameTags,
			Passed:  true,
			Message: fmt.Sprintf("%d tags, latest %s (%s)", len(tags), latest.Name, latest.Date),
		}
	}
}

// CheckGitBinary looks binary up on PATH. A missing binary only fails the
// check when required.
func CheckGitBinary(binary string, required bool) CheckResult {
	if binary == "" {
		binary = "git"
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		msg := binary + " not found in PATH"
		if !required {
			msg += " (only needed for provider: cli)"
		}
		return CheckResult{Name: CheckNameGit, Passed: !required, Message: msg}
	}

	return CheckResult{Name: CheckNameGit, Passed: true, Message: "found " + path}
}

// FormatReport renders one line per check.
func FormatReport(report *HealthReport, symbols progress.ProgressSymbols) string {
	var sb strings.Builder
	for _, check := range report.Checks {
		symbol := symbols.Checkmark
		if !check.Passed {
			symbol = symbols.Failure
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", symbol, check.Name, check.Message)
	}
	return sb.String()
}
