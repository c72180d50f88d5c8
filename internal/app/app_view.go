package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/tabterm/internal/terminal"
	"github.com/zhubert/tabterm/internal/ui"
)

// View renders the app. This is the core Bubble Tea view function.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current view as a string.
func (m *Model) RenderToString() string {
	if !m.view.Ready() {
		return "Loading..."
	}

	var screen terminal.Screen
	alive := false
	if active := m.mux.Active(); active != nil {
		screen = active.Session.Screen()
		alive = active.Session.Alive()
	}

	// A dead session keeps its last frame but no cursor.
	content := ui.RenderScreen(screen, m.view.ContentWidth, m.view.ContentHeight, alive)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.tabBar.View(),
		content,
		m.footer.View(),
	)
}
