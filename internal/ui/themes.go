// Package ui provides the color themes used by the polymul console output.
// It defines color schemes and ANSI escape code helpers shared by the report
// renderer, the usage text and the error status lines.
package ui

import (
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ThemeEnvVar selects the theme by name ("dark" or "light") when colors are
// enabled.
const ThemeEnvVar = "POLYMUL_THEME"

// Theme is a set of ANSI escape codes, one per role in the console output.
type Theme struct {
	Name string
	// Primary highlights flag names and report headers.
	Primary string
	// Secondary is used for defaults and file paths.
	Secondary string
	Success   string
	Warning   string
	Error     string
	// Info marks sizes and ring names.
	Info      string
	Bold      string
	Underline string
	Reset     string
}

// ansi256 returns the escape code for a 256-color foreground.
func ansi256(code string) string { return "\033[38;5;" + code + "m" }

var (
	// DarkTheme uses bright colors for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   ansi256("39"),
		Secondary: ansi256("245"),
		Success:   ansi256("82"),
		Warning:   ansi256("220"),
		Error:     ansi256("196"),
		Info:      ansi256("141"),
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme uses darker colors for light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   ansi256("27"),
		Secondary: ansi256("240"),
		Success:   ansi256("28"),
		Warning:   ansi256("130"),
		Error:     ansi256("124"),
		Info:      ansi256("54"),
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme has every code empty.
	NoColorTheme = Theme{Name: "none"}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	themeMutex   sync.RWMutex
	currentTheme = DarkTheme
)

// ThemeNames returns the registered theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// lookupTheme returns the theme called name, falling back to dark.
func lookupTheme(name string) Theme {
	if t, ok := themes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return DarkTheme
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name. Unknown names select the dark theme.
func SetTheme(name string) {
	SetCurrentTheme(lookupTheme(name))
}

// isTerminal reports whether fd refers to a terminal. Tests replace it.
var isTerminal = term.IsTerminal

// InitTheme selects the theme for a run. Colors are disabled when noColor is
// set, when NO_COLOR is present in the environment (https://no-color.org/),
// or when out is a file that is not a terminal, so redirected reports stay
// free of escape codes. A nil out skips the terminal check. Otherwise
// POLYMUL_THEME picks the palette.
func InitTheme(noColor bool, out io.Writer) {
	SetCurrentTheme(resolveTheme(noColor, out))
}

func resolveTheme(noColor bool, out io.Writer) Theme {
	if noColor {
		return NoColorTheme
	}
	// Any value, even empty, disables colors.
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return NoColorTheme
	}
	if f, ok := out.(*os.File); ok && !isTerminal(int(f.Fd())) {
		return NoColorTheme
	}
	return lookupTheme(os.Getenv(ThemeEnvVar))
}
