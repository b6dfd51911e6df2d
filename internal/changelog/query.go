package changelog

import (
	"fmt"
	"strings"
)

// ReleaseNotFoundError is returned when a requested release label doesn't exist.
type ReleaseNotFoundError struct {
	Label     string
	Available []string
}

func (e *ReleaseNotFoundError) Error() string {
	return fmt.Sprintf("release %q not found (available: %s)",
		e.Label, strings.Join(e.Available, ", "))
}

// GetRelease retrieves a release by its exact label.
func (c *Changelog) GetRelease(label string) (*Release, error) {
	for i := range c.Releases {
		if c.Releases[i].Label == label {
			return &c.Releases[i], nil
		}
	}

	return nil, &ReleaseNotFoundError{
		Label:     label,
		Available: c.Labels(),
	}
}

// Labels returns release labels in assembly order.
func (c *Changelog) Labels() []string {
	labels := make([]string, len(c.Releases))
	for i, r := range c.Releases {
		labels[i] = r.Label
	}
	return labels
}

// GetLatest returns the most recently assembled release, or nil when empty.
func (c *Changelog) GetLatest() *Release {
	if len(c.Releases) == 0 {
		return nil
	}
	return &c.Releases[len(c.Releases)-1]
}

// GetCommitCount returns the number of commit lines across all releases.
func (c *Changelog) GetCommitCount() int {
	n := 0
	for _, r := range c.Releases {
		n += r.CommitCount()
	}
	return n
}

// CategoryCounts returns commits per category name for one release.
func (r Release) CategoryCounts() map[string]int {
	counts := make(map[string]int, len(r.Categories))
	for _, cat := range r.Categories {
		counts[cat.Name] += len(cat.Commits)
	}
	return counts
}
