// Package git provides the revision-history providers changemoji reads tags
// and commits from. Repository uses the go-git library so no git installation
// is required; CLI shells out to the git binary with the same queries for
// environments where its exact output is preferred.
package git

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/amoutonbrady/changemoji/internal/changelog"
	"github.com/amoutonbrady/changemoji/internal/logging"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// ShortHashLength matches git's minimum abbreviation.
	ShortHashLength = 7
	// DateLayout is git's --date=short layout.
	DateLayout = "2006-01-02"
)

// Option configures a provider.
type Option func(*options)

type options struct {
	logger *slog.Logger
	binary string
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBinary overrides the git executable used by the CLI provider.
func WithBinary(path string) Option {
	return func(o *options) {
		if path != "" {
			o.binary = path
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: logging.Discard(),
		binary: "git",
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Repository reads history through go-git.
type Repository struct {
	path   string
	repo   *git.Repository
	logger *slog.Logger
}

var _ changelog.Provider = (*Repository)(nil)

// openRepo opens the repository containing path, walking up the directory
// tree to find the .git directory. An empty path means the working directory.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get current directory")
		}
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open repository", goerr.V("path", path))
	}
	return repo, nil
}

// IsRepository reports whether path is inside a git repository.
func IsRepository(path string) bool {
	_, err := openRepo(path)
	return err == nil
}

// GitDir returns the .git directory of the repository containing path.
func GitDir(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}
	fs, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", goerr.New("repository is not stored on disk", goerr.V("path", path))
	}
	return fs.Filesystem().Root(), nil
}

// Open opens the repository containing path.
func Open(path string, opts ...Option) (*Repository, error) {
	o := buildOptions(opts)

	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("opened repository", slog.String("path", path))
	return &Repository{path: path, repo: repo, logger: o.logger}, nil
}

// ListTags returns every tag ordered by creation date, oldest first. The
// creation date is the tagger date of an annotated tag or the committer date
// of a lightweight tag's commit; ties are broken by name.
func (r *Repository) ListTags(ctx context.Context) ([]changelog.ReferencePoint, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tags", goerr.V("path", r.path))
	}

	type datedTag struct {
		name string
		when time.Time
	}
	var tags []datedTag

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		when, err := r.tagTime(ref)
		if err != nil {
			return goerr.Wrap(err, "failed to read tag", goerr.V("tag", ref.Name().Short()))
		}
		tags = append(tags, datedTag{name: ref.Name().Short(), when: when})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(tags, func(i, j int) bool {
		if !tags[i].when.Equal(tags[j].when) {
			return tags[i].when.Before(tags[j].when)
		}
		return tags[i].name < tags[j].name
	})

	points := make([]changelog.ReferencePoint, len(tags))
	for i, t := range tags {
		points[i] = changelog.ReferencePoint{Name: t.name, Date: formatDate(t.when)}
	}

	r.logger.Debug("listed tags", slog.Int("count", len(points)))
	return points, nil
}

// tagTime returns the creation time of a tag reference.
func (r *Repository) tagTime(ref *plumbing.Reference) (time.Time, error) {
	tag, err := r.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		return tag.Tagger.When, nil
	case !errors.Is(err, plumbing.ErrObjectNotFound):
		return time.Time{}, err
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return time.Time{}, err
	}
	return commit.Committer.When, nil
}

// ResolveHash returns the full hash of the commit ref points at, peeling
// annotated tags. Abbreviated hashes are accepted.
func (r *Repository) ResolveHash(_ context.Context, ref string) (string, error) {
	h, err := r.resolve(ref)
	if err != nil {
		return "", err
	}
	return h.String(), nil
}

// resolve looks ref up as a tag, then a branch, and only then as a revision
// or hash prefix, so a tag named like a hex prefix ("2024") wins over a
// commit whose hash starts with it, as in git.
func (r *Repository) resolve(ref string) (plumbing.Hash, error) {
	if ref != "" {
		h, ok, err := r.resolveReference(ref)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		if ok {
			return h, nil
		}
	}

	h, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, goerr.Wrap(err, "failed to resolve revision", goerr.V("ref", ref), goerr.V("path", r.path))
	}
	return *h, nil
}

// resolveReference returns the commit of refs/tags/<ref> or refs/heads/<ref>.
func (r *Repository) resolveReference(ref string) (plumbing.Hash, bool, error) {
	for _, name := range []plumbing.ReferenceName{
		plumbing.NewTagReferenceName(ref),
		plumbing.NewBranchReferenceName(ref),
	} {
		reference, err := r.repo.Reference(name, true)
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			continue
		}
		if err != nil {
			return plumbing.ZeroHash, false, goerr.Wrap(err, "failed to read reference", goerr.V("ref", ref), goerr.V("path", r.path))
		}
		h, err := r.peel(reference.Hash())
		return h, err == nil, err
	}
	return plumbing.ZeroHash, false, nil
}

// peel follows annotated tag objects down to the commit they point at.
func (r *Repository) peel(h plumbing.Hash) (plumbing.Hash, error) {
	for {
		tag, err := r.repo.TagObject(h)
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return h, nil
		}
		if err != nil {
			return plumbing.ZeroHash, goerr.Wrap(err, "failed to read tag object", goerr.V("hash", h.String()))
		}
		h = tag.Target
	}
}

// CommitsInRange returns commits reachable from to but not from from,
// newest first by committer time, like `git log from..to`.
func (r *Repository) CommitsInRange(ctx context.Context, from, to string) ([]changelog.Commit, error) {
	fromHash, err := r.resolve(from)
	if err != nil {
		return nil, err
	}
	toHash, err := r.resolve(to)
	if err != nil {
		return nil, err
	}
	if fromHash == toHash {
		return nil, nil
	}

	excluded, err := r.ancestors(ctx, fromHash)
	if err != nil {
		return nil, err
	}

	head, err := r.repo.CommitObject(toHash)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read commit", goerr.V("ref", to))
	}

	var commits []changelog.Commit
	err = object.NewCommitIterCTime(head, excluded, nil).ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commits = append(commits, changelog.Commit{
			Hash:    shortHash(c.Hash),
			Subject: subject(c.Message),
		})
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to walk commits", goerr.V("from", from), goerr.V("to", to))
	}

	r.logger.Debug("listed range", slog.String("from", from), slog.String("to", to), slog.Int("commits", len(commits)))
	return commits, nil
}

// ancestors returns the set of commits reachable from h, h included.
func (r *Repository) ancestors(ctx context.Context, h plumbing.Hash) (map[plumbing.Hash]bool, error) {
	start, err := r.repo.CommitObject(h)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read commit", goerr.V("hash", h.String()))
	}

	seen := make(map[plumbing.Hash]bool)
	err = object.NewCommitPreorderIter(start, nil, nil).ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to walk ancestors", goerr.V("hash", h.String()))
	}
	return seen, nil
}

// FirstCommit returns the most recent parentless commit reachable from HEAD,
// matching the first line of `git rev-list --max-parents=0 HEAD`.
func (r *Repository) FirstCommit(ctx context.Context) (changelog.ReferencePoint, error) {
	head, err := r.headCommit()
	if err != nil {
		return changelog.ReferencePoint{}, err
	}

	var root *object.Commit
	err = object.NewCommitIterCTime(head, nil, nil).ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.NumParents() == 0 {
			root = c
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return changelog.ReferencePoint{}, goerr.Wrap(err, "failed to walk history", goerr.V("path", r.path))
	}
	if root == nil {
		return changelog.ReferencePoint{}, goerr.New("no root commit reachable from HEAD", goerr.V("path", r.path))
	}

	return commitPoint(root), nil
}

// LastCommit returns the commit HEAD points at.
func (r *Repository) LastCommit(context.Context) (changelog.ReferencePoint, error) {
	head, err := r.headCommit()
	if err != nil {
		return changelog.ReferencePoint{}, err
	}
	return commitPoint(head), nil
}

func (r *Repository) headCommit() (*object.Commit, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read HEAD", goerr.V("path", r.path))
	}

	c, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read HEAD commit", goerr.V("hash", ref.Hash().String()))
	}
	return c, nil
}

func commitPoint(c *object.Commit) changelog.ReferencePoint {
	return changelog.ReferencePoint{
		Name: shortHash(c.Hash),
		Date: formatDate(c.Committer.When),
	}
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:ShortHashLength]
}

// formatDate renders t in its own zone, as git's --date=short does.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// subject returns the first paragraph of a commit message folded onto one
// line, the way git's %s placeholder does.
func subject(message string) string {
	message = strings.ReplaceAll(message, "\r\n", "\n")
	message = strings.TrimLeft(message, "\n")

	if i := strings.Index(message, "\n\n"); i >= 0 {
		message = message[:i]
	}

	lines := strings.Split(message, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}
