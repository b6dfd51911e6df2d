package git

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/amoutonbrady/changemoji/internal/changelog"
	"github.com/m-mizutani/goerr/v2"
)

// CLI reads history by running the git executable against a repository.
type CLI struct {
	path   string
	binary string
	logger *slog.Logger
}

var _ changelog.Provider = (*CLI)(nil)

// NewCLI creates a CLI provider for the repository at path.
func NewCLI(path string, opts ...Option) *CLI {
	o := buildOptions(opts)
	if path == "" {
		path = "."
	}
	return &CLI{path: path, binary: o.binary, logger: o.logger}
}

// run executes git -C path args... and returns its stdout.
func (c *CLI) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", c.path}, args...)
	c.logger.Debug("running git", slog.Any("args", full))

	cmd := exec.CommandContext(ctx, c.binary, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", goerr.Wrap(err, "git command failed",
			goerr.V("args", strings.Join(args, " ")),
			goerr.V("path", c.path),
			goerr.V("stderr", strings.TrimSpace(stderr.String())))
	}
	return stdout.String(), nil
}

// ListTags lists tags sorted by creator date (tagger date for annotated
// tags, committer date for lightweight ones).
func (c *CLI) ListTags(ctx context.Context) ([]changelog.ReferencePoint, error) {
	out, err := c.run(ctx, "for-each-ref", "--sort=creatordate",
		"--format=%(refname:short) %(creatordate:short)", "refs/tags")
	if err != nil {
		return nil, err
	}
	return parseReferences(out), nil
}

// CommitsInRange runs git log from..to, newest first.
func (c *CLI) CommitsInRange(ctx context.Context, from, to string) ([]changelog.Commit, error) {
	out, err := c.run(ctx, "log", from+".."+to, "--pretty=format:%h %s")
	if err != nil {
		return nil, err
	}
	return parseCommits(out), nil
}

// ResolveHash runs git rev-list -n 1 ref.
func (c *CLI) ResolveHash(ctx context.Context, ref string) (string, error) {
	out, err := c.run(ctx, "rev-list", "-n", "1", ref)
	if err != nil {
		return "", err
	}

	hash := strings.TrimSpace(out)
	if hash == "" {
		return "", goerr.New("revision resolved to nothing", goerr.V("ref", ref))
	}
	return hash, nil
}

// FirstCommit returns the newest root commit reachable from HEAD.
func (c *CLI) FirstCommit(ctx context.Context) (changelog.ReferencePoint, error) {
	out, err := c.run(ctx, "log", "--max-parents=0", "--format=%h %cd", "--date=short", "HEAD")
	if err != nil {
		return changelog.ReferencePoint{}, err
	}
	return firstReference(out, "root commit")
}

// LastCommit returns the commit HEAD points at.
func (c *CLI) LastCommit(ctx context.Context) (changelog.ReferencePoint, error) {
	out, err := c.run(ctx, "log", "-1", "--format=%h %cd", "--date=short", "HEAD")
	if err != nil {
		return changelog.ReferencePoint{}, err
	}
	return firstReference(out, "HEAD commit")
}

// parseReferences parses "<name> <date>" lines, skipping blanks.
func parseReferences(out string) []changelog.ReferencePoint {
	var refs []changelog.ReferencePoint
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, date, _ := strings.Cut(line, " ")
		refs = append(refs, changelog.ReferencePoint{Name: name, Date: strings.TrimSpace(date)})
	}
	return refs
}

// parseCommits parses "<hash> <subject>" lines, skipping blanks.
func parseCommits(out string) []changelog.Commit {
	var commits []changelog.Commit
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		hash, subj, _ := strings.Cut(line, " ")
		commits = append(commits, changelog.Commit{Hash: hash, Subject: subj})
	}
	return commits
}

func firstReference(out, what string) (changelog.ReferencePoint, error) {
	refs := parseReferences(out)
	if len(refs) == 0 {
		return changelog.ReferencePoint{}, goerr.New("git reported no "+what, goerr.V("output", out))
	}
	return refs[0], nil
}
