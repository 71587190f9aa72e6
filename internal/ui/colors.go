package ui

// The Color helpers read the active theme on each call, so output printed
// after SetTheme or InitTheme picks up the new palette. Names follow the
// dark theme's hues; the roles they map to are what matter.
func ColorReset() string     { return GetCurrentTheme().Reset }
func ColorRed() string       { return GetCurrentTheme().Error }
func ColorGreen() string     { return GetCurrentTheme().Success }
func ColorYellow() string    { return GetCurrentTheme().Warning }
func ColorBlue() string      { return GetCurrentTheme().Primary }
func ColorMagenta() string   { return GetCurrentTheme().Info }
func ColorCyan() string      { return GetCurrentTheme().Secondary }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }

// StatusColors adapts the active theme to apperrors.ColorProvider for the
// final status line of a run.
type StatusColors struct{}

func (StatusColors) Yellow() string { return ColorYellow() }
func (StatusColors) Red() string    { return ColorRed() }
func (StatusColors) Reset() string  { return ColorReset() }
