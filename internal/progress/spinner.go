package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerDelay = 100 * time.Millisecond

// Spinner shows an animated status line while a long operation runs.
// A disabled Spinner writes nothing.
type Spinner struct {
	w       io.Writer
	symbols ProgressSymbols
	enabled bool
	s       *spinner.Spinner
}

// NewSpinner creates a spinner drawing on w. It is enabled only when the
// terminal is interactive and enabled is true (no --debug or --plain).
func NewSpinner(w io.Writer, caps TerminalCapabilities, enabled bool) *Spinner {
	symbols := SelectSymbols(caps)
	sp := &Spinner{
		w:       w,
		symbols: symbols,
		enabled: enabled && caps.IsTTY,
	}
	if sp.enabled {
		sp.s = spinner.New(spinner.CharSets[symbols.SpinnerSet], spinnerDelay, spinner.WithWriter(w))
	}
	return sp
}

// Enabled reports whether the spinner draws anything.
func (sp *Spinner) Enabled() bool {
	return sp.enabled
}

// Start begins the animation with msg as suffix.
func (sp *Spinner) Start(msg string) {
	if !sp.enabled {
		return
	}
	sp.s.Suffix = " " + msg
	sp.s.Start()
}

// Update replaces the message shown next to the spinner.
func (sp *Spinner) Update(msg string) {
	if !sp.enabled {
		return
	}
	sp.s.Lock()
	sp.s.Suffix = " " + msg
	sp.s.Unlock()
}

// Succeed stops the spinner and prints a success line.
func (sp *Spinner) Succeed(msg string) {
	sp.finish(sp.symbols.Checkmark, msg)
}

// Fail stops the spinner and prints a failure line.
func (sp *Spinner) Fail(msg string) {
	sp.finish(sp.symbols.Failure, msg)
}

func (sp *Spinner) finish(symbol, msg string) {
	if !sp.enabled {
		return
	}
	sp.s.Stop()
	fmt.Fprintf(sp.w, "%s %s\n", symbol, msg)
}
