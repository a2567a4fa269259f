package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"
	// strike is used for completed task titles.
	strike = "\033[9m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool

	profileOnce sync.Once
	hasColor    bool
)

// SetColorForcing overrides terminal detection.
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

// SetColorMode maps the configured "auto" / "always" / "never" onto
// SetColorForcing.
func SetColorMode(mode string) {
	switch mode {
	case "always":
		SetColorForcing(true, false)
	case "never":
		SetColorForcing(false, true)
	default:
		SetColorForcing(false, false)
	}
}

// stdoutHasColor asks termenv once whether stdout renders ANSI colors.
// It honours NO_COLOR and non-TTY outputs.
func stdoutHasColor() bool {
	profileOnce.Do(func() {
		out := termenv.NewOutput(os.Stdout)
		hasColor = out.EnvColorProfile() != termenv.Ascii
	})
	return hasColor
}

// C wraps s in color when the output supports it.
func C(color, s string) string {
	if disableColor || current.plain || color == "" {
		return s
	}
	if forceColor || stdoutHasColor() {
		return color + s + reset
	}
	return s
}

// Dim renders s faint.
func Dim(s string) string { return C(dim, s) }

// Strike renders s crossed out.
func Strike(s string) string { return C(strike, s) }

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, C(current.Success, symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, C(current.Error, symCross+" "+msg)) }
