package app

import (
	"fmt"
	"log/slog"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tabterm/internal/config"
	"github.com/zhubert/tabterm/internal/logger"
	"github.com/zhubert/tabterm/internal/tabs"
	"github.com/zhubert/tabterm/internal/ui"
)

// Model is the main Bubble Tea model. It is the single owner of the
// multiplexer: sessions report back only through the messages below.
type Model struct {
	config  *config.Config
	version string
	shell   string

	mux    *tabs.Multiplexer
	tabBar *ui.TabBar
	footer *ui.Footer
	view   *ui.ViewContext

	// startErr is the spawn error that ended the program before any tab
	// existed.
	startErr error

	// notify sends the background-exit notification. Swapped in tests.
	notify func(title string, exitCode int) error

	log *slog.Logger
}

// TerminalOutputMsg is sent when a tab's screen has new content.
type TerminalOutputMsg struct {
	TabID int
}

// SessionExitedMsg is sent once when a tab's shell goes away.
type SessionExitedMsg struct {
	TabID int
}

// New creates a new app model. No tab exists until Init runs.
func New(opts Options) *Model {
	opts = opts.withDefaults()

	if savedTheme := opts.Config.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	m := &Model{
		config:  opts.Config,
		version: opts.Version,
		shell:   opts.Shell,
		mux:     tabs.New(opts.Spawner),
		tabBar:  ui.NewTabBar(),
		footer:  ui.NewFooter(footerBindings()...),
		view:    ui.NewViewContext(),
		notify:  opts.Notify,
		log:     logger.WithComponent("app"),
	}
	return m
}

// Init opens the first tab. If it cannot be started there is nothing to
// show, so the program quits and Err reports why.
func (m *Model) Init() tea.Cmd {
	id, err := m.mux.CreateTab(m.shell)
	if err != nil {
		m.log.Error("failed to open first tab", "shell", m.shell, "error", err)
		m.startErr = err
		return tea.Quit
	}
	return m.tabOpened(id)
}

// Err returns the error that stopped the program during Init, if any.
func (m *Model) Err() error {
	return m.startErr
}

// Close kills every session still running. Safe to call after quitting.
func (m *Model) Close() {
	m.mux.Shutdown()
}

// Multiplexer exposes the tab state, mainly for tests.
func (m *Model) Multiplexer() *tabs.Multiplexer {
	return m.mux
}

// openTab spawns a new tab and starts listening to it. A spawn failure is
// reported in the footer and no tab is created.
func (m *Model) openTab() tea.Cmd {
	id, err := m.mux.CreateTab(m.shell)
	if err != nil {
		m.log.Error("failed to open tab", "shell", m.shell, "error", err)
		return m.ShowFlashError(fmt.Sprintf("Cannot start %s: %v", m.shell, err))
	}
	return m.tabOpened(id)
}

func (m *Model) tabOpened(id int) tea.Cmd {
	m.syncTabs()
	tab, _ := m.mux.Get(id)
	return m.listenForSession(tab.ID, tab.Session)
}

// closeTab closes the tab. Closing the last tab ends the program.
func (m *Model) closeTab(id int) tea.Cmd {
	quit, err := m.mux.CloseTab(id)
	if err != nil {
		m.log.Warn("close failed", "tabID", id, "error", err)
		return nil
	}
	if quit {
		return m.quit()
	}
	m.syncTabs()
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.log.Info("quitting", "tabs", m.mux.Len())
	m.mux.Shutdown()
	return tea.Quit
}

// syncTabs pushes tab state into the tab bar and footer.
func (m *Model) syncTabs() {
	list := m.mux.Tabs()
	items := make([]ui.TabItem, 0, len(list))
	for _, t := range list {
		items = append(items, ui.TabItem{
			ID:       t.ID,
			Title:    t.Title,
			Exited:   !t.Session.Alive(),
			ExitCode: t.Session.ExitCode(),
		})
	}
	m.tabBar.SetTabs(items, m.mux.ActiveID())

	notice := ""
	if active := m.mux.Active(); active != nil && !active.Session.Alive() {
		notice = exitedNotice(active)
	}
	m.footer.SetNotice(notice)
}

func exitedNotice(t *tabs.Tab) string {
	if code := t.Session.ExitCode(); code > 0 {
		return fmt.Sprintf("%s exited with status %d", t.Title, code)
	}
	return t.Title + " exited"
}

func footerBindings() []key.Binding {
	var out []key.Binding
	for _, s := range ShortcutRegistry {
		if s.ShowInFooter {
			out = append(out, s.Binding)
		}
	}
	return out
}
