package errors

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		category ErrorCategory
		want     string
	}{
		"argument":      {category: Argument, want: "Argument Error"},
		"configuration": {category: Configuration, want: "Configuration Error"},
		"prerequisite":  {category: Prerequisite, want: "Prerequisite Error"},
		"runtime":       {category: Runtime, want: "Runtime Error"},
		"unknown":       {category: ErrorCategory(99), want: "Error"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Wrap(nil, Runtime))
	assert.Nil(t, WrapWithMessage(nil, Runtime, "ignored"))

	cause := errors.New("object not found")
	wrapped := WrapWithMessage(cause, Runtime, "reading history")
	assert.Equal(t, "reading history: object not found", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)

	plain := Wrap(cause, Configuration, "check the file")
	assert.Equal(t, "object not found", plain.Error())
	assert.Equal(t, []string{"check the file"}, plain.Remediation)
}

func TestAsCLIError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, AsCLIError(errors.New("plain")))
	assert.False(t, IsCLIError(nil))

	inner := NotARepository("/tmp/x")
	outer := fmt.Errorf("running: %w", inner)
	require.True(t, IsCLIError(outer))
	assert.Same(t, inner, AsCLIError(outer))
}

func TestMessages(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	tests := map[string]struct {
		err      *CLIError
		category ErrorCategory
		contains string
	}{
		"not a repository": {
			err:      NotARepository("/work/app"),
			category: Prerequisite,
			contains: "/work/app",
		},
		"provider failure": {
			err:      ProviderFailure(cause),
			category: Runtime,
			contains: "boom",
		},
		"config parse": {
			err:      ConfigParseError(cause),
			category: Configuration,
			contains: "failed to load configuration",
		},
		"invalid flag": {
			err:      InvalidFlagValue("format", "html", "markdown", "yaml"),
			category: Argument,
			contains: `"html" for --format`,
		},
		"not writable": {
			err:      FileNotWritable("CHANGELOG.md", cause),
			category: Runtime,
			contains: "CHANGELOG.md",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Contains(t, tt.err.Error(), tt.contains)
			assert.NotEmpty(t, tt.err.Remediation)
		})
	}
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	got := FormatErrorPlain(NewArgumentError("bad input", "try again"))
	assert.Equal(t, "Error [Argument Error]: bad input\n\nTo fix this:\n  • try again\n", got)
	assert.Empty(t, FormatErrorPlain(nil))
}

func TestFprintError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	FprintError(&buf, errors.New("disk full"), PrintOptions{Plain: true})
	assert.Contains(t, buf.String(), "Error [Runtime Error]: disk full")

	buf.Reset()
	FprintError(&buf, nil, PrintOptions{})
	assert.Empty(t, buf.String())

	buf.Reset()
	FprintError(&buf, ProviderFailure(errors.New("bad object")), PrintOptions{Debug: true, Plain: true})
	assert.Contains(t, buf.String(), "bad object")
	assert.Contains(t, buf.String(), "To fix this:")
}
