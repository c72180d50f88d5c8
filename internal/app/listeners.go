package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tabterm/internal/tabs"
)

// listenForSession creates a command that waits for the session's next
// event. Refresh wins over Done so the final output is drawn before the
// tab is marked exited. The returned message re-arms the listener.
func (m *Model) listenForSession(tabID int, sess tabs.Session) tea.Cmd {
	if sess == nil {
		return nil
	}
	refresh := sess.Refresh()
	done := sess.Done()

	return func() tea.Msg {
		select {
		case <-refresh:
			return TerminalOutputMsg{TabID: tabID}
		default:
		}

		select {
		case <-refresh:
			return TerminalOutputMsg{TabID: tabID}
		case <-done:
			return SessionExitedMsg{TabID: tabID}
		}
	}
}

// handleTerminalOutput re-arms the listener. Output for a closed tab is
// dropped and its listener is not renewed.
func (m *Model) handleTerminalOutput(msg TerminalOutputMsg) (tea.Model, tea.Cmd) {
	tab, ok := m.mux.Get(msg.TabID)
	if !ok {
		return m, nil
	}
	return m, m.listenForSession(tab.ID, tab.Session)
}

// handleSessionExited marks the tab exited. The tab stays until the user
// closes it. A background tab's exit raises a notification when enabled.
func (m *Model) handleSessionExited(msg SessionExitedMsg) (tea.Model, tea.Cmd) {
	tab, ok := m.mux.Get(msg.TabID)
	if !ok {
		return m, nil
	}

	code := tab.Session.ExitCode()
	log := m.log.With("tabID", tab.ID, "pid", tab.Session.PID())
	log.Info("session exited", "exitCode", code)

	m.syncTabs()

	if tab.ID == m.mux.ActiveID() || !m.config.GetNotificationsEnabled() {
		return m, nil
	}

	title, notify := tab.Title, m.notify
	return m, func() tea.Msg {
		if err := notify(title, code); err != nil {
			log.Warn("notification failed", "error", err)
		}
		return nil
	}
}
