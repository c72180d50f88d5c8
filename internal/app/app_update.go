package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tabterm/internal/input"
	"github.com/zhubert/tabterm/internal/ui"
)

// Update handles messages. This is the core Bubble Tea update function that
// routes all messages to appropriate handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg.Width, msg.Height)

	case tea.KeyPressMsg:
		return m.handleKeyPress(msg)

	case tea.PasteMsg:
		return m.handlePaste(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case TerminalOutputMsg:
		return m.handleTerminalOutput(msg)

	case SessionExitedMsg:
		return m.handleSessionExited(msg)

	case ui.FlashTickMsg:
		if m.footer.ClearIfExpired() || !m.footer.HasFlash() {
			return m, nil
		}
		return m, ui.FlashTick()
	}

	return m, nil
}

// handleWindowSize recomputes the layout and resizes every live session to
// the content area.
func (m *Model) handleWindowSize(width, height int) {
	m.view.UpdateTerminalSize(width, height)
	m.tabBar.SetWidth(m.view.TerminalWidth)
	m.footer.SetWidth(m.view.TerminalWidth)
	m.mux.SetSize(m.view.ContentHeight, m.view.ContentWidth)
}

// handleKeyPress runs tabterm's own shortcuts and forwards everything else
// to the focused session.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if result, cmd, handled := m.ExecuteShortcut(msg); handled {
		return result, cmd
	}

	sess := m.mux.Focused()
	if sess == nil {
		return m, nil
	}
	if data := input.Translate(input.FromKeyPress(msg)); len(data) > 0 {
		sess.Write(data)
	}
	return m, nil
}

// handlePaste writes pasted text to the focused session unchanged.
func (m *Model) handlePaste(msg tea.PasteMsg) (tea.Model, tea.Cmd) {
	if sess := m.mux.Focused(); sess != nil && msg.Content != "" {
		m.log.Debug("paste", "len", len(msg.Content))
		sess.Write([]byte(msg.Content))
	}
	return m, nil
}

// handleMouseClick focuses the tab under a left click on the tab bar.
func (m *Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseLeft || msg.Y >= ui.TabBarHeight {
		return m, nil
	}
	id, ok := m.tabBar.TabAt(msg.X)
	if !ok {
		return m, nil
	}
	if err := m.mux.Focus(id); err != nil {
		m.log.Warn("focus failed", "tabID", id, "error", err)
		return m, nil
	}
	m.syncTabs()
	return m, nil
}
