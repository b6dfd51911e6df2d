package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	addedLine   = color.New(color.FgGreen)
	removedLine = color.New(color.FgRed)
)

// DiffStats counts the lines a regeneration adds and removes.
type DiffStats struct {
	Added   int
	Removed int
}

// Changed reports whether the documents differ.
func (s DiffStats) Changed() bool {
	return s.Added > 0 || s.Removed > 0
}

// WriteDiff writes the lines that differ between current and next,
// prefixed with "-" or "+". Unchanged lines are omitted.
func WriteDiff(w io.Writer, current, next string, plain bool) (DiffStats, error) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(current, next)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var stats DiffStats
	for _, d := range diffs {
		var prefix string
		var paint *color.Color
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix, paint = "+", addedLine
		case diffmatchpatch.DiffDelete:
			prefix, paint = "-", removedLine
		default:
			continue
		}

		for _, line := range splitLines(d.Text) {
			if prefix == "+" {
				stats.Added++
			} else {
				stats.Removed++
			}
			out := prefix + line
			if !plain {
				out = paint.Sprint(out)
			}
			if _, err := fmt.Fprintln(w, out); err != nil {
				return stats, err
			}
		}
	}
	return stats, nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
