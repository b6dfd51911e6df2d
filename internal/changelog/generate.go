package changelog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amoutonbrady/changemoji/internal/logging"
	"golang.org/x/sync/errgroup"
)

// DefaultTitle is the document title used when none is configured.
const DefaultTitle = "Changelog"

// Generator assembles a Changelog from a Provider.
type Generator struct {
	provider   Provider
	classifier *Classifier
	title      string
	jobs       int
	logger     *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithTitle sets the document title.
func WithTitle(title string) GeneratorOption {
	return func(g *Generator) {
		if title != "" {
			g.title = title
		}
	}
}

// WithJobs sets how many reference ranges are collected concurrently.
// Values below 2 keep collection sequential.
func WithJobs(n int) GeneratorOption {
	return func(g *Generator) {
		if n >= 1 {
			g.jobs = n
		}
	}
}

// WithLogger sets the logger used for per-range progress.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithClassifier replaces the default rule table classifier.
func WithClassifier(c *Classifier) GeneratorOption {
	return func(g *Generator) {
		if c != nil {
			g.classifier = c
		}
	}
}

// NewGenerator creates a Generator reading history from p.
func NewGenerator(p Provider, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider:   p,
		classifier: NewClassifier(DefaultRules()),
		title:      DefaultTitle,
		jobs:       1,
		logger:     logging.Discard(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// ReleaseLabel names the release for pair index i out of pairs.
// The first pair is checked before the last, so a lone pair is
// labelled pre-1.0.0.
func ReleaseLabel(i, pairs int, from, to ReferencePoint) string {
	switch {
	case i == 0:
		return fmt.Sprintf("[pre-1.0.0](%s...%s)", from.Name, to.Name)
	case i == pairs-1:
		return fmt.Sprintf("[Unreleased](%s...%s)", from.Name, to.Name)
	default:
		return fmt.Sprintf("[%s](%s...%s) (%s)", to.Name, from.Name, to.Name, to.Date)
	}
}

// Generate resolves the reference sequence and builds one release per
// adjacent pair. The first provider failure aborts the whole run.
func (g *Generator) Generate(ctx context.Context) (*Changelog, error) {
	refs, err := Resolve(ctx, g.provider)
	if err != nil {
		return nil, err
	}

	g.logger.Debug("resolved references", slog.Int("count", len(refs)), slog.Int("ranges", refs.Pairs()))

	categories, err := g.collect(ctx, refs)
	if err != nil {
		return nil, err
	}

	log := &Changelog{Title: g.title}
	pairs := refs.Pairs()
	for i := 0; i < pairs; i++ {
		release := Release{
			Label:      ReleaseLabel(i, pairs, refs[i], refs[i+1]),
			Categories: categories[i],
		}
		if err := log.Add(release); err != nil {
			return nil, err
		}
	}

	return log, nil
}

// collect returns the categorized commits of every pair, indexed by pair.
func (g *Generator) collect(ctx context.Context, refs ReferenceSequence) ([][]Category, error) {
	pairs := refs.Pairs()
	results := make([][]Category, pairs)

	if g.jobs <= 1 {
		for i := 0; i < pairs; i++ {
			cats, err := g.collectRange(ctx, refs[i], refs[i+1])
			if err != nil {
				return nil, err
			}
			results[i] = cats
		}
		return results, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.jobs)

	for i := 0; i < pairs; i++ {
		eg.Go(func() error {
			cats, err := g.collectRange(ctx, refs[i], refs[i+1])
			if err != nil {
				return err
			}
			results[i] = cats
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (g *Generator) collectRange(ctx context.Context, from, to ReferencePoint) ([]Category, error) {
	g.logger.Debug("collecting commits", slog.String("from", from.Name), slog.String("to", to.Name))

	commits, err := CommitsBetween(ctx, g.provider, from, to)
	if err != nil {
		return nil, err
	}

	lines := make([]string, len(commits))
	for i, c := range commits {
		lines[i] = c.Line()
	}

	return g.classifier.Categorize(lines), nil
}
