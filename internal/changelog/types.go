package changelog

import "fmt"

// OtherCategory is the implicit category for commits no rule matched.
// It always renders last within a release.
const OtherCategory = "Other"

// ReferencePoint is a named, dated position in history used as a range
// boundary. Name is a tag name or an abbreviated commit hash; Date is
// formatted YYYY-MM-DD and may be empty when the provider cannot derive it.
type ReferencePoint struct {
	Name string `yaml:"name"`
	Date string `yaml:"date,omitempty"`
}

// ReferenceSequence is [first commit, tags..., last commit] in ascending
// chronological order. A resolved sequence always has at least two entries.
type ReferenceSequence []ReferencePoint

// Pairs returns the number of adjacent (from, to) pairs in the sequence,
// which is also the number of releases the sequence produces.
func (s ReferenceSequence) Pairs() int {
	if len(s) < 2 {
		return 0
	}
	return len(s) - 1
}

// Commit is a single commit as reported by a provider.
type Commit struct {
	Hash    string `yaml:"hash"`
	Subject string `yaml:"subject,omitempty"`
}

// Line returns the raw "<hash> <subject>" form consumed by the classifier.
// A commit with no subject yields the bare hash.
func (c Commit) Line() string {
	if c.Subject == "" {
		return c.Hash
	}
	return c.Hash + " " + c.Subject
}

// Category groups decorated commit lines under a display name.
// Commits keep the order in which they were classified.
type Category struct {
	Name    string   `yaml:"name"`
	Commits []string `yaml:"commits"`
}

// Release is the rendered section for one reference range.
type Release struct {
	Label      string     `yaml:"label"`
	Categories []Category `yaml:"categories"`
}

// CommitCount returns the number of commit lines across all categories.
func (r Release) CommitCount() int {
	n := 0
	for _, c := range r.Categories {
		n += len(c.Commits)
	}
	return n
}

// Changelog is the ordered release aggregate. Releases are kept in assembly
// order (oldest range first); renderers reverse it so the newest release
// appears at the top of the document.
type Changelog struct {
	Title    string    `yaml:"title"`
	Releases []Release `yaml:"releases"`
}

// DuplicateReleaseError is returned by Add when a label is already present.
type DuplicateReleaseError struct {
	Label string
}

func (e *DuplicateReleaseError) Error() string {
	return fmt.Sprintf("release %q already present in changelog", e.Label)
}

// Add appends a release, preserving insertion order.
func (c *Changelog) Add(r Release) error {
	for _, existing := range c.Releases {
		if existing.Label == r.Label {
			return &DuplicateReleaseError{Label: r.Label}
		}
	}
	c.Releases = append(c.Releases, r)
	return nil
}

// Newest returns the releases in reverse assembly order without mutating
// the aggregate.
func (c *Changelog) Newest() []Release {
	out := make([]Release, len(c.Releases))
	for i, r := range c.Releases {
		out[len(c.Releases)-1-i] = r
	}
	return out
}
