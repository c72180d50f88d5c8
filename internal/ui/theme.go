// Package ui provides theme management for the application.
// Themes define the color palette of tabterm's chrome (tab bar, footer);
// the shells' own output keeps the colors it asks for.
package ui

import "charm.land/lipgloss/v2"

// Theme defines a complete color palette for the application.
type Theme struct {
	// Name is the display name of the theme
	Name string

	// Primary is the main accent color (active tab, brand)
	Primary string
	// Secondary is the secondary accent color (key hints)
	Secondary string

	// Background colors
	Bg         string // Tab bar background
	BgSelected string // Active tab background (defaults to Primary if empty)

	// Text colors
	Text        string // Primary text
	TextMuted   string // Inactive tabs, descriptions
	TextInverse string // Text on colored backgrounds

	// Semantic colors
	Success string // Success flashes
	Warning string // Exited tabs, warnings
	Error   string // Error flashes
	Info    string // Info flashes

	Border string // Separators
}

// GetBgSelected returns the selected background color, defaulting to Primary
func (t Theme) GetBgSelected() string {
	if t.BgSelected != "" {
		return t.BgSelected
	}
	return t.Primary
}

// ThemeName is a type for theme identifiers
type ThemeName string

// Available theme names
const (
	ThemeDarkPurple ThemeName = "dark-purple"
	ThemeNord       ThemeName = "nord"
	ThemeDracula    ThemeName = "dracula"
	ThemeGruvbox    ThemeName = "gruvbox"
	ThemeLight      ThemeName = "light"
)

// DefaultTheme is the default theme name
const DefaultTheme = ThemeDarkPurple

// BuiltinThemes contains all built-in themes
var BuiltinThemes = map[ThemeName]Theme{
	ThemeDarkPurple: {
		Name:        "Dark Purple",
		Primary:     "#7C3AED",
		Secondary:   "#06B6D4",
		Bg:          "#1F2937",
		Text:        "#F9FAFB",
		TextMuted:   "#9CA3AF",
		TextInverse: "#1F2937",
		Success:     "#10B981",
		Warning:     "#F59E0B",
		Error:       "#EF4444",
		Info:        "#06B6D4",
		Border:      "#374151",
	},
	ThemeNord: {
		Name:        "Nord",
		Primary:     "#88C0D0",
		Secondary:   "#81A1C1",
		Bg:          "#2E3440",
		Text:        "#ECEFF4",
		TextMuted:   "#D8DEE9",
		TextInverse: "#2E3440",
		Success:     "#A3BE8C",
		Warning:     "#EBCB8B",
		Error:       "#BF616A",
		Info:        "#81A1C1",
		Border:      "#4C566A",
	},
	ThemeDracula: {
		Name:        "Dracula",
		Primary:     "#BD93F9",
		Secondary:   "#8BE9FD",
		Bg:          "#282A36",
		Text:        "#F8F8F2",
		TextMuted:   "#6272A4",
		TextInverse: "#282A36",
		Success:     "#50FA7B",
		Warning:     "#FFB86C",
		Error:       "#FF5555",
		Info:        "#8BE9FD",
		Border:      "#44475A",
	},
	ThemeGruvbox: {
		Name:        "Gruvbox Dark",
		Primary:     "#FE8019",
		Secondary:   "#83A598",
		Bg:          "#282828",
		Text:        "#EBDBB2",
		TextMuted:   "#A89984",
		TextInverse: "#282828",
		Success:     "#B8BB26",
		Warning:     "#FABD2F",
		Error:       "#FB4934",
		Info:        "#83A598",
		Border:      "#504945",
	},
	ThemeLight: {
		Name:        "Light",
		Primary:     "#6366F1",
		Secondary:   "#0891B2",
		Bg:          "#F3F4F6",
		BgSelected:  "#E0E7FF",
		Text:        "#111827",
		TextMuted:   "#6B7280",
		TextInverse: "#FFFFFF",
		Success:     "#059669",
		Warning:     "#D97706",
		Error:       "#DC2626",
		Info:        "#0891B2",
		Border:      "#D1D5DB",
	},
}

// ThemeNames returns a list of all available theme names in display order
func ThemeNames() []ThemeName {
	return []ThemeName{
		ThemeDarkPurple,
		ThemeNord,
		ThemeDracula,
		ThemeGruvbox,
		ThemeLight,
	}
}

// GetTheme returns a theme by name, defaulting to DarkPurple if not found
func GetTheme(name ThemeName) Theme {
	if theme, ok := BuiltinThemes[name]; ok {
		return theme
	}
	return BuiltinThemes[DefaultTheme]
}

// currentTheme holds the active theme
var currentTheme = BuiltinThemes[DefaultTheme]

// CurrentTheme returns the currently active theme
func CurrentTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme and regenerates all styles
func SetTheme(name ThemeName) {
	currentTheme = GetTheme(name)
	regenerateStyles()
}

// SetThemeByName sets the active theme by string name. Unknown names fall
// back to the default theme.
func SetThemeByName(name string) {
	SetTheme(ThemeName(name))
}

// CurrentThemeName returns the name of the current theme
func CurrentThemeName() ThemeName {
	for name, theme := range BuiltinThemes {
		if theme.Name == currentTheme.Name {
			return name
		}
	}
	return DefaultTheme
}

// regenerateStyles updates all style variables based on the current theme
func regenerateStyles() {
	t := currentTheme

	ColorPrimary = lipgloss.Color(t.Primary)
	ColorSecondary = lipgloss.Color(t.Secondary)
	ColorBg = lipgloss.Color(t.Bg)
	ColorBgSelected = lipgloss.Color(t.GetBgSelected())
	ColorText = lipgloss.Color(t.Text)
	ColorTextMuted = lipgloss.Color(t.TextMuted)
	ColorTextInverse = lipgloss.Color(t.TextInverse)
	ColorSuccess = lipgloss.Color(t.Success)
	ColorWarning = lipgloss.Color(t.Warning)
	ColorError = lipgloss.Color(t.Error)
	ColorInfo = lipgloss.Color(t.Info)
	ColorBorder = lipgloss.Color(t.Border)

	buildStyles()
}
