package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
	detailFmt   = color.New(color.Faint).SprintFunc()
)

// FormatError formats a CLIError for display in the terminal.
// Colors are dropped automatically when color.NoColor is set.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, !color.NoColor, false)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false, false)
}

func formatError(err *CLIError, useColors, debug bool) string {
	paint := func(f func(a ...interface{}) string, s string) string {
		if useColors {
			return f(s)
		}
		return s
	}

	var sb strings.Builder
	sb.WriteString(paint(errorLabel, "Error"))
	sb.WriteString(" [")
	sb.WriteString(paint(categoryFmt, err.Category.String()))
	sb.WriteString("]: ")
	sb.WriteString(paint(errorMsg, err.Message))
	sb.WriteString("\n")

	if debug && err.Cause != nil {
		// goerr causes print their stack and values with %+v
		sb.WriteString("\n")
		sb.WriteString(paint(detailFmt, strings.TrimRight(fmt.Sprintf("%+v", err.Cause), "\n")))
		sb.WriteString("\n")
	}

	if len(err.Remediation) > 0 {
		sb.WriteString("\n")
		sb.WriteString(paint(fixLabel, "To fix this:"))
		sb.WriteString("\n")
		for _, step := range err.Remediation {
			sb.WriteString("  ")
			sb.WriteString(paint(bullet, "•"))
			sb.WriteString(" ")
			sb.WriteString(step)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// PrintOptions controls FprintError.
type PrintOptions struct {
	// Debug prints the wrapped cause in full.
	Debug bool
	// Plain disables colors.
	Plain bool
}

// FprintError prints err to w. Errors that are not CLIErrors are reported
// as runtime errors.
func FprintError(w io.Writer, err error, opts PrintOptions) {
	if err == nil {
		return
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = Wrap(err, Runtime)
	}
	fmt.Fprint(w, formatError(cliErr, !opts.Plain && !color.NoColor, opts.Debug))
}
