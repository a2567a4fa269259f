package ui

import (
	"sort"
	"strings"
)

// Theme is the palette and glyph set the renderers draw with.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending string
	BoxUnchecked, BoxChecked                      string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymDone, SymUnchecked                         string

	// plain disables color entirely, whatever the color mode says.
	plain bool
}

var (
	roundFrame  = [6]string{"╭", "╮", "╰", "╯", "─", "│"}
	squareFrame = [6]string{"┌", "┐", "└", "┘", "─", "│"}
	asciiFrame  = [6]string{"+", "+", "+", "+", "-", "|"}
)

func (t Theme) withFrame(f [6]string) Theme {
	t.CornerTL, t.CornerTR, t.CornerBL, t.CornerBR, t.H, t.V = f[0], f[1], f[2], f[3], f[4], f[5]
	return t
}

var themes = map[string]Theme{
	"classic": Theme{
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: symCheck, SymUnchecked: "•",
	}.withFrame(squareFrame),
	"neon": Theme{
		Title: "\033[95m", Muted: fgGray, Accent: "\033[96m",
		Success: "\033[92m", Error: "\033[91m", Pending: "\033[93m",
		BoxUnchecked: "◻", BoxChecked: "◼",
		SymDone: symCheck, SymUnchecked: "•",
	}.withFrame(roundFrame),
	"mono": Theme{
		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		SymDone: "x", SymUnchecked: "-",
		plain: true,
	}.withFrame(asciiFrame),
}

var current Theme

func init() { SetTheme("classic") }

// SetTheme switches the active theme. Unknown names fall back to classic.
func SetTheme(name string) {
	t, ok := themes[strings.ToLower(name)]
	if !ok {
		t = themes["classic"]
	}
	current = t
}

// ThemeNames lists the selectable themes, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Current() Theme { return current }
