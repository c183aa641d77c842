package domain

import (
	"fmt"
	"strings"
)

// ThemeName identifies a palette.
type ThemeName string

const (
	ThemeLight ThemeName = "light"
	ThemeDark  ThemeName = "dark"
)

// Style variable names written by a theme toggle.
const (
	VarBackground  = "bg-color"
	VarText        = "text-color"
	VarContainerBg = "container-bg"
	VarBorder      = "border-color"
)

// PaletteVars lists the style variables in a stable order.
var PaletteVars = []string{VarBackground, VarText, VarContainerBg, VarBorder}

// Palette holds the four shared color variables as hex strings.
type Palette struct {
	Background  string
	Text        string
	ContainerBg string
	Border      string
}

// LightPalette is applied on startup and whenever the dark theme is switched off.
var LightPalette = Palette{
	Background:  "#f7fafc",
	Text:        "#1a202c",
	ContainerBg: "#ffffff",
	Border:      "#e2e8f0",
}

// DarkPalette is applied while the dark theme is on.
var DarkPalette = Palette{
	Background:  "#1a202c",
	Text:        "#e2e8f0",
	ContainerBg: "#2d3748",
	Border:      "#4a5568",
}

// ParseTheme normalizes a theme name. Blank input means ThemeLight.
func ParseTheme(raw string) (ThemeName, error) {
	switch ThemeName(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, raw)
	}
}

// ThemeFor maps the dark flag to a theme name.
func ThemeFor(isDark bool) ThemeName {
	if isDark {
		return ThemeDark
	}
	return ThemeLight
}

// PaletteFor returns the palette for a theme name.
func PaletteFor(theme ThemeName) Palette {
	if theme == ThemeDark {
		return DarkPalette
	}
	return LightPalette
}

// Vars returns the palette keyed by style variable name.
func (p Palette) Vars() map[string]string {
	return map[string]string{
		VarBackground:  p.Background,
		VarText:        p.Text,
		VarContainerBg: p.ContainerBg,
		VarBorder:      p.Border,
	}
}
