package ui

import "charm.land/lipgloss/v2"

// Color palette, regenerated by SetTheme.
var (
	ColorPrimary     = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary   = lipgloss.Color("#06B6D4") // Cyan
	ColorBg          = lipgloss.Color("#1F2937") // Dark background
	ColorBgSelected  = lipgloss.Color("#7C3AED") // Active tab
	ColorText        = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted   = lipgloss.Color("#9CA3AF") // Muted text
	ColorTextInverse = lipgloss.Color("#1F2937") // Dark text for light backgrounds
	ColorSuccess     = lipgloss.Color("#10B981") // Green
	ColorWarning     = lipgloss.Color("#F59E0B") // Amber
	ColorError       = lipgloss.Color("#EF4444") // Red
	ColorInfo        = lipgloss.Color("#06B6D4") // Cyan
	ColorBorder      = lipgloss.Color("#374151") // Dark gray
)

// Tab bar styles
var (
	TabBarStyle    lipgloss.Style
	TabStyle       lipgloss.Style
	TabActiveStyle lipgloss.Style
	TabExitedStyle lipgloss.Style
)

// Footer styles
var (
	FooterStyle     lipgloss.Style
	FooterKeyStyle  lipgloss.Style
	FooterDescStyle lipgloss.Style
	FooterSepStyle  lipgloss.Style
)

// Flash styles
var (
	FlashErrorStyle   lipgloss.Style
	FlashWarningStyle lipgloss.Style
	FlashInfoStyle    lipgloss.Style
	FlashSuccessStyle lipgloss.Style
)

// ExitedBannerStyle marks the frozen screen of a dead session.
var ExitedBannerStyle lipgloss.Style

func init() {
	buildStyles()
}

func buildStyles() {
	TabBarStyle = lipgloss.NewStyle().
		Background(ColorBg)

	TabStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Background(ColorBg).
		Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBgSelected).
		Bold(true).
		Padding(0, 1)

	TabExitedStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Background(ColorBg).
		Italic(true).
		Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	FooterSepStyle = lipgloss.NewStyle().
		Foreground(ColorBorder)

	FlashErrorStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	FlashWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	FlashInfoStyle = lipgloss.NewStyle().Foreground(ColorInfo)
	FlashSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)

	ExitedBannerStyle = lipgloss.NewStyle().
		Foreground(ColorTextInverse).
		Background(ColorWarning).
		Bold(true).
		Padding(0, 1)
}
