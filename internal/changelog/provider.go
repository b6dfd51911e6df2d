package changelog

import (
	"context"
	"fmt"
)

// Provider answers the revision-history queries the generator needs.
// Implementations are bound to a single repository.
type Provider interface {
	// ListTags returns tags ordered by tagging date, oldest first.
	ListTags(ctx context.Context) ([]ReferencePoint, error)
	// CommitsInRange returns commits reachable from to but not from from,
	// newest first.
	CommitsInRange(ctx context.Context, from, to string) ([]Commit, error)
	// ResolveHash returns the full hash of the commit ref points at.
	ResolveHash(ctx context.Context, ref string) (string, error)
	// FirstCommit returns the repository's root commit.
	FirstCommit(ctx context.Context) (ReferencePoint, error)
	// LastCommit returns the commit HEAD points at.
	LastCommit(ctx context.Context) (ReferencePoint, error)
}

// Resolve builds the reference sequence [first commit, tags..., last commit].
// No deduplication is done: when HEAD is tagged, the final range is empty
// apart from its boundary commit.
func Resolve(ctx context.Context, p Provider) (ReferenceSequence, error) {
	first, err := p.FirstCommit(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving first commit: %w", err)
	}

	tags, err := p.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	last, err := p.LastCommit(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving last commit: %w", err)
	}

	seq := make(ReferenceSequence, 0, len(tags)+2)
	seq = append(seq, first)
	seq = append(seq, tags...)
	seq = append(seq, last)
	return seq, nil
}

// CommitsBetween returns the commits of the range (from, to], oldest first,
// preceded by a synthetic boundary commit carrying only from's full hash.
// An empty range still yields the boundary commit.
func CommitsBetween(ctx context.Context, p Provider, from, to ReferencePoint) ([]Commit, error) {
	rangeCommits, err := p.CommitsInRange(ctx, from.Name, to.Name)
	if err != nil {
		return nil, fmt.Errorf("listing commits %s..%s: %w", from.Name, to.Name, err)
	}

	boundary, err := p.ResolveHash(ctx, from.Name)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", from.Name, err)
	}

	commits := make([]Commit, 0, len(rangeCommits)+1)
	commits = append(commits, Commit{Hash: boundary})
	for i := len(rangeCommits) - 1; i >= 0; i-- {
		commits = append(commits, rangeCommits[i])
	}
	return commits, nil
}
