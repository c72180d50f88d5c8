package app

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tabterm/internal/keys"
)

// Shortcut is a key binding handled by tabterm itself instead of being
// forwarded to the shell. This is the single source of truth for them.
type Shortcut struct {
	Binding      key.Binding
	ShowInFooter bool
	Handler      func(m *Model) (tea.Model, tea.Cmd)
}

// ShortcutRegistry lists every intercepted key. The footer hints are
// derived from it.
var ShortcutRegistry = []Shortcut{
	{
		Binding:      key.NewBinding(key.WithKeys(keys.CtrlT), key.WithHelp("ctrl+t", "new tab")),
		ShowInFooter: true,
		Handler:      shortcutNewTab,
	},
	{
		Binding:      key.NewBinding(key.WithKeys(keys.CtrlW), key.WithHelp("ctrl+w", "close tab")),
		ShowInFooter: true,
		Handler:      shortcutCloseTab,
	},
	{
		Binding:      key.NewBinding(key.WithKeys(keys.CtrlShiftRight, keys.CtrlPgDown), key.WithHelp("ctrl+pgdn", "next")),
		ShowInFooter: true,
		Handler:      shortcutNextTab,
	},
	{
		Binding:      key.NewBinding(key.WithKeys(keys.CtrlShiftLeft, keys.CtrlPgUp), key.WithHelp("ctrl+pgup", "prev")),
		ShowInFooter: true,
		Handler:      shortcutPrevTab,
	},
	{
		Binding:      key.NewBinding(key.WithKeys(keys.CtrlQ), key.WithHelp("ctrl+q", "quit")),
		ShowInFooter: true,
		Handler:      shortcutQuit,
	},
}

// ExecuteShortcut runs the shortcut bound to msg, if any.
func (m *Model) ExecuteShortcut(msg tea.KeyPressMsg) (tea.Model, tea.Cmd, bool) {
	for _, s := range ShortcutRegistry {
		if key.Matches(msg, s.Binding) {
			m.log.Debug("shortcut", "key", msg.String())
			model, cmd := s.Handler(m)
			return model, cmd, true
		}
	}
	return nil, nil, false
}

func shortcutNewTab(m *Model) (tea.Model, tea.Cmd) {
	return m, m.openTab()
}

func shortcutCloseTab(m *Model) (tea.Model, tea.Cmd) {
	if m.mux.Len() == 0 {
		return m, m.quit()
	}
	return m, m.closeTab(m.mux.ActiveID())
}

func shortcutNextTab(m *Model) (tea.Model, tea.Cmd) {
	m.mux.NextTab()
	m.syncTabs()
	return m, nil
}

func shortcutPrevTab(m *Model) (tea.Model, tea.Cmd) {
	m.mux.PrevTab()
	m.syncTabs()
	return m, nil
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m, m.quit()
}
