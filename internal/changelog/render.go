package changelog

import (
	"fmt"
	"io"
	"strings"
)

// RenderMarkdown writes the changelog as Markdown, newest release first.
// Categories are written in the order the classifier produced them; nothing
// is re-sorted here, so the same aggregate always renders the same bytes.
func RenderMarkdown(c *Changelog, w io.Writer) error {
	if err := renderHeader(c, w); err != nil {
		return fmt.Errorf("rendering header: %w", err)
	}

	for i, r := range c.Newest() {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := renderRelease(&r, w); err != nil {
			return fmt.Errorf("rendering release %s: %w", r.Label, err)
		}
	}

	return nil
}

// RenderMarkdownString is a convenience function that renders to a string.
func RenderMarkdownString(c *Changelog) (string, error) {
	var b strings.Builder
	if err := RenderMarkdown(c, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderHeader(c *Changelog, w io.Writer) error {
	title := c.Title
	if title == "" {
		title = DefaultTitle
	}
	_, err := io.WriteString(w, "# "+title+"\n\n")
	return err
}

// renderRelease writes a release heading followed by its categories,
// separated from each other by a blank line.
func renderRelease(r *Release, w io.Writer) error {
	if _, err := io.WriteString(w, "## "+r.Label+"\n\n"); err != nil {
		return err
	}

	for i, cat := range r.Categories {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := renderCategory(cat.Name, cat.Commits, w); err != nil {
			return err
		}
	}

	return nil
}

func renderCategory(name string, commits []string, w io.Writer) error {
	if _, err := io.WriteString(w, "### "+name+"\n\n"); err != nil {
		return err
	}

	for _, commit := range commits {
		if _, err := io.WriteString(w, "- "+commit+"\n"); err != nil {
			return err
		}
	}

	return nil
}
