package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const brand = " tabterm "

// TabItem is what the tab bar needs to know about one tab.
type TabItem struct {
	ID       int
	Title    string
	Exited   bool
	ExitCode int
}

type tabSpan struct {
	id         int
	start, end int // cell columns, end exclusive
	label      string
}

// TabBar represents the top line listing every tab.
type TabBar struct {
	width  int
	items  []TabItem
	active int
	spans  []tabSpan
}

// NewTabBar creates an empty tab bar
func NewTabBar() *TabBar {
	return &TabBar{}
}

// SetWidth sets the tab bar width
func (b *TabBar) SetWidth(width int) {
	b.width = width
	b.layout()
}

// SetTabs replaces the tabs shown and the active tab id.
func (b *TabBar) SetTabs(items []TabItem, active int) {
	b.items = items
	b.active = active
	b.layout()
}

func (b *TabBar) layout() {
	b.spans = b.spans[:0]
	x := runewidth.StringWidth(brand)
	for _, it := range b.items {
		label := tabLabel(it)
		w := runewidth.StringWidth(label) + 2 // Padding(0, 1)
		b.spans = append(b.spans, tabSpan{id: it.ID, start: x, end: x + w, label: label})
		x += w
	}
}

func tabLabel(it TabItem) string {
	title := runewidth.Truncate(it.Title, MaxTabTitleWidth, "…")
	if it.Exited {
		return title + " [exited]"
	}
	return title
}

// TabAt returns the id of the tab drawn at column x.
func (b *TabBar) TabAt(x int) (int, bool) {
	for _, s := range b.spans {
		if x >= s.start && x < s.end && (b.width <= 0 || s.start < b.width) {
			return s.id, true
		}
	}
	return 0, false
}

// View renders the tab bar
func (b *TabBar) View() string {
	var sb strings.Builder
	sb.WriteString(renderGradient(brand))

	exited := make(map[int]bool, len(b.items))
	for _, it := range b.items {
		exited[it.ID] = it.Exited
	}
	used := runewidth.StringWidth(brand)
	for _, s := range b.spans {
		style := TabStyle
		switch {
		case s.id == b.active:
			style = TabActiveStyle
		case exited[s.id]:
			style = TabExitedStyle
		}
		sb.WriteString(style.Render(s.label))
		used = s.end
	}

	line := sb.String()
	if b.width <= 0 {
		return line
	}
	if used > b.width {
		return ansi.Truncate(line, b.width, "…")
	}
	return line + TabBarStyle.Render(strings.Repeat(" ", b.width-used))
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders content on a background fading from the theme's
// primary color to the tab bar background.
func renderGradient(content string) string {
	if content == "" {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)
	textColor := lipgloss.Color(theme.Text)

	runes := []rune(content)
	width := len(runes)
	var result strings.Builder
	for i, r := range runes {
		t := float64(i) / float64(width)
		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Foreground(textColor).
			Bold(true)
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}
