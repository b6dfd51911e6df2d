package progress

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps TerminalCapabilities
		want ProgressSymbols
	}{
		"unicode terminal": {
			caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			want: ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14},
		},
		"ascii fallback": {
			caps: TerminalCapabilities{IsTTY: true},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SelectSymbols(tt.caps))
		})
	}
}

func TestDetectTerminalCapabilities_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	caps := DetectTerminalCapabilities(f)
	assert.False(t, caps.IsTTY)
	assert.False(t, caps.SupportsColor)
	assert.False(t, caps.SupportsUnicode)
	assert.Zero(t, caps.Width)
}

func TestSpinner_DisabledWritesNothing(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps    TerminalCapabilities
		enabled bool
	}{
		"not a terminal":   {caps: TerminalCapabilities{}, enabled: true},
		"disabled by flag": {caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true}, enabled: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			sp := NewSpinner(&buf, tt.caps, tt.enabled)
			assert.False(t, sp.Enabled())

			sp.Start("reading history")
			sp.Update("collecting v1.0.0")
			sp.Succeed("wrote CHANGELOG.md")
			sp.Fail("failed")
			assert.Empty(t, buf.String())
		})
	}
}

func TestSpinner_FinalLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sp := NewSpinner(&buf, TerminalCapabilities{IsTTY: true}, true)
	assert.True(t, sp.Enabled())

	sp.Start("reading history")
	sp.Fail("history unreadable")
	assert.Contains(t, buf.String(), "[FAIL] history unreadable\n")
}
