package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps category names to their terminal styling.
var categoryStyles = map[string]CategoryStyle{
	"New feature":     {Color: color.New(color.FgGreen), Icon: "✨"},
	"Bug fix":         {Color: color.New(color.FgYellow), Icon: "🐛"},
	"UI improvements": {Color: color.New(color.FgMagenta), Icon: "🎨"},
	"Internal":        {Color: color.New(color.FgBlue), Icon: "🔧"},
	OtherCategory:     {Color: color.New(color.FgWhite), Icon: "•"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes a styled preview of the changelog, newest release
// first, for display instead of writing the Markdown file.
func FormatTerminal(c *Changelog, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	for i, r := range c.Newest() {
		if err := formatRelease(&r, w, opts, width, i > 0); err != nil {
			return fmt.Errorf("formatting release %s: %w", r.Label, err)
		}
	}

	return nil
}

func formatRelease(r *Release, w io.Writer, opts FormatOptions, width int, addSeparator bool) error {
	if addSeparator {
		fmt.Fprintln(w)
	}

	if err := writeReleaseHeader(r.Label, w, opts); err != nil {
		return err
	}

	for _, cat := range r.Categories {
		if err := writeCategorySection(cat, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

func writeReleaseHeader(label string, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", label)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(label))
	return err
}

func writeCategorySection(cat Category, w io.Writer, opts FormatOptions, width int) error {
	style := styleFor(cat.Name)

	if err := writeCategoryHeader(cat.Name, style, w, opts); err != nil {
		return err
	}

	for _, commit := range cat.Commits {
		if err := writeCommit(commit, style, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

// styleFor falls back to the Other style for unknown category names.
func styleFor(name string) CategoryStyle {
	if s, ok := categoryStyles[name]; ok {
		return s
	}
	return categoryStyles[OtherCategory]
}

func writeCategoryHeader(name string, style CategoryStyle, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "\n### %s\n", name)
		return err
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "\n%s %s\n", style.Icon, colored(name))
	return err
}

func writeCommit(commit string, style CategoryStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, commit)
		return err
	}

	wrapped := wrapText(commit, width-len(prefix), "    ")

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth bytes, using indent for
// continuation lines. Breaks only at spaces so multi-byte glyphs stay whole.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := strings.LastIndex(remaining[:maxWidth], " ")
		if breakPoint <= 0 {
			next := strings.Index(remaining, " ")
			if next < 0 {
				break
			}
			breakPoint = next
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}
