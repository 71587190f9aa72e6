package ui

import (
	"os"
	"slices"
	"testing"
)

// restoreTheme puts back the theme and terminal probe after a test.
func restoreTheme(t *testing.T) {
	t.Helper()
	original, probe := GetCurrentTheme(), isTerminal
	t.Cleanup(func() {
		SetCurrentTheme(original)
		isTerminal = probe
	})
}

// unsetNoColor clears NO_COLOR for the test and restores it afterwards.
func unsetNoColor(t *testing.T) {
	t.Helper()
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
}

func TestSetTheme(t *testing.T) {
	restoreTheme(t)

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{" LIGHT ", "light"},
		{"solarized", "dark"},
		{"", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q): got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestThemeNames(t *testing.T) {
	if got := ThemeNames(); !slices.Equal(got, []string{"dark", "light", "none"}) {
		t.Errorf("ThemeNames() = %v", got)
	}
}

func TestInitTheme(t *testing.T) {
	restoreTheme(t)

	tests := []struct {
		name     string
		noColor  bool
		noColorV *string
		themeEnv string
		terminal bool
		want     string
	}{
		{name: "flag disables colors", noColor: true, terminal: true, want: "none"},
		{name: "NO_COLOR disables colors", noColorV: ptr("1"), terminal: true, want: "none"},
		{name: "empty NO_COLOR still disables colors", noColorV: ptr(""), terminal: true, want: "none"},
		{name: "pipe disables colors", terminal: false, want: "none"},
		{name: "terminal uses dark", terminal: true, want: "dark"},
		{name: "theme variable selects light", themeEnv: "light", terminal: true, want: "light"},
		{name: "flag beats theme variable", noColor: true, themeEnv: "light", terminal: true, want: "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetNoColor(t)
			if tt.noColorV != nil {
				t.Setenv("NO_COLOR", *tt.noColorV)
			}
			t.Setenv(ThemeEnvVar, tt.themeEnv)
			isTerminal = func(int) bool { return tt.terminal }

			InitTheme(tt.noColor, os.Stdout)
			if got := GetCurrentTheme().Name; got != tt.want {
				t.Errorf("got theme %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("nil writer skips terminal check", func(t *testing.T) {
		unsetNoColor(t)
		t.Setenv(ThemeEnvVar, "")
		isTerminal = func(int) bool { return false }
		InitTheme(false, nil)
		if got := GetCurrentTheme().Name; got != "dark" {
			t.Errorf("got theme %q, want dark", got)
		}
	})
}

func ptr(s string) *string { return &s }

func TestThemePalettes(t *testing.T) {
	for _, th := range []Theme{DarkTheme, LightTheme} {
		for role, code := range map[string]string{
			"Primary": th.Primary, "Success": th.Success, "Error": th.Error, "Reset": th.Reset,
		} {
			if code == "" {
				t.Errorf("%s.%s should not be empty", th.Name, role)
			}
		}
	}
	if NoColorTheme != (Theme{Name: "none"}) {
		t.Errorf("NoColorTheme should have only a name: %+v", NoColorTheme)
	}
}

func TestColorFunctions(t *testing.T) {
	restoreTheme(t)

	SetTheme("light")
	pairs := []struct{ got, want string }{
		{ColorReset(), LightTheme.Reset},
		{ColorRed(), LightTheme.Error},
		{ColorGreen(), LightTheme.Success},
		{ColorYellow(), LightTheme.Warning},
		{ColorBlue(), LightTheme.Primary},
		{ColorMagenta(), LightTheme.Info},
		{ColorCyan(), LightTheme.Secondary},
		{ColorBold(), LightTheme.Bold},
		{ColorUnderline(), LightTheme.Underline},
	}
	for i, p := range pairs {
		if p.got != p.want {
			t.Errorf("pair %d: got %q, want %q", i, p.got, p.want)
		}
	}

	SetTheme("none")
	if ColorGreen()+ColorRed()+ColorReset() != "" {
		t.Error("color functions should be empty with the none theme")
	}
}

// TestStatusColors verifies the apperrors color adapter follows the theme.
func TestStatusColors(t *testing.T) {
	restoreTheme(t)

	SetTheme("dark")
	c := StatusColors{}
	if c.Red() != DarkTheme.Error || c.Yellow() != DarkTheme.Warning || c.Reset() != DarkTheme.Reset {
		t.Error("StatusColors should mirror the dark theme")
	}
	SetTheme("none")
	if c.Red() != "" || c.Reset() != "" {
		t.Error("StatusColors should be empty with the none theme")
	}
}
