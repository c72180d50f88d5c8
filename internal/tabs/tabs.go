// Package tabs keeps the ordered set of shell tabs and which one is active.
//
// A Multiplexer is not safe for concurrent use. It is owned by the UI's
// update loop; session read loops talk to that loop through messages and
// never touch the Multiplexer themselves.
package tabs

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	pkgerrors "github.com/zhubert/tabterm/internal/errors"
	"github.com/zhubert/tabterm/internal/logger"
	"github.com/zhubert/tabterm/internal/terminal"
)

// Session is the part of a terminal session the multiplexer and the UI use.
// *terminal.Session implements it.
type Session interface {
	Write(p []byte)
	Resize(rows, cols int)
	Kill()
	Alive() bool
	Screen() terminal.Screen
	Refresh() <-chan struct{}
	Done() <-chan struct{}
	PID() int
	Shell() string
	ExitCode() int
}

// Spawner starts sessions for new tabs.
type Spawner interface {
	Spawn(shell string, rows, cols int) (Session, error)
}

// PTYSpawner spawns real shells on pseudo-terminals.
type PTYSpawner struct {
	Env []string // base environment; nil means the current process's
}

func (p PTYSpawner) Spawn(shell string, rows, cols int) (Session, error) {
	s, err := terminal.Spawn(terminal.Options{Shell: shell, Env: p.Env, Rows: rows, Cols: cols})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Tab pairs one session with its title.
type Tab struct {
	ID      int
	Title   string
	Session Session
	Created time.Time
}

// Multiplexer owns the tabs.
type Multiplexer struct {
	spawner Spawner
	tabs    []*Tab
	lastID  int

	active   int // id of the active tab, 0 when there are no tabs
	previous int // id that was active before the current one

	rows, cols int

	log *slog.Logger
}

// New returns an empty multiplexer. New tabs start at the terminal package's
// default size until SetSize is called.
func New(spawner Spawner) *Multiplexer {
	return &Multiplexer{
		spawner: spawner,
		rows:    terminal.DefaultRows,
		cols:    terminal.DefaultCols,
		log:     logger.WithComponent("tabs"),
	}
}

// CreateTab spawns shell in a new tab and makes it active. On failure the
// tab list is left exactly as it was.
func (m *Multiplexer) CreateTab(shell string) (int, error) {
	sess, err := m.spawner.Spawn(shell, m.rows, m.cols)
	if err != nil {
		m.log.Warn("spawn failed", "shell", shell, "error", err)
		return 0, err
	}

	m.lastID++
	tab := &Tab{
		ID:      m.lastID,
		Title:   fmt.Sprintf("shell-%d", m.lastID),
		Session: sess,
		Created: time.Now(),
	}
	m.tabs = append(m.tabs, tab)
	m.activate(tab.ID)

	m.log.Info("tab created", "tabID", tab.ID, "shell", shell, "pid", sess.PID())
	return tab.ID, nil
}

// CloseTab kills the tab's session and removes it. Closing the only tab
// removes nothing and returns quit=true: the application should exit.
func (m *Multiplexer) CloseTab(id int) (quit bool, err error) {
	idx := m.index(id)
	if idx < 0 {
		return false, pkgerrors.TabNotFound(id)
	}
	if len(m.tabs) == 1 {
		return true, nil
	}

	tab := m.tabs[idx]
	tab.Session.Kill()
	m.tabs = slices.Delete(m.tabs, idx, idx+1)

	if m.previous == id {
		m.previous = 0
	}
	if m.active == id {
		next := m.previous
		if m.index(next) < 0 {
			next = m.tabs[min(idx, len(m.tabs)-1)].ID
		}
		// The closed tab is gone, so it must not become "previous".
		m.active = 0
		m.activate(next)
		if m.previous == next {
			m.previous = 0
		}
	}

	m.log.Info("tab closed", "tabID", id, "active", m.active)
	return false, nil
}

// NextTab activates the tab after the active one, wrapping around.
func (m *Multiplexer) NextTab() { m.rotate(1) }

// PrevTab activates the tab before the active one, wrapping around.
func (m *Multiplexer) PrevTab() { m.rotate(-1) }

func (m *Multiplexer) rotate(delta int) {
	n := len(m.tabs)
	if n < 2 {
		return
	}
	idx := m.index(m.active)
	m.activate(m.tabs[((idx+delta)%n+n)%n].ID)
}

// Focus activates the tab with the given id.
func (m *Multiplexer) Focus(id int) error {
	if m.index(id) < 0 {
		return pkgerrors.TabNotFound(id)
	}
	m.activate(id)
	return nil
}

func (m *Multiplexer) activate(id int) {
	if id == m.active {
		return
	}
	if m.active != 0 {
		m.previous = m.active
	}
	m.active = id
}

// SetSize records the content area size and resizes every live session.
func (m *Multiplexer) SetSize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	m.rows, m.cols = rows, cols
	for _, tab := range m.tabs {
		if tab.Session.Alive() {
			tab.Session.Resize(rows, cols)
		}
	}
}

// Size returns the size used for sessions.
func (m *Multiplexer) Size() (rows, cols int) { return m.rows, m.cols }

// Shutdown kills every session. The tabs stay listed; the multiplexer is not
// used afterwards.
func (m *Multiplexer) Shutdown() {
	for _, tab := range m.tabs {
		tab.Session.Kill()
	}
	m.log.Info("all sessions killed", "count", len(m.tabs))
}

// ActiveID returns the id of the active tab, or 0 when there are none.
func (m *Multiplexer) ActiveID() int { return m.active }

// Active returns the active tab, or nil when there are none.
func (m *Multiplexer) Active() *Tab {
	if idx := m.index(m.active); idx >= 0 {
		return m.tabs[idx]
	}
	return nil
}

// Focused returns the session that receives keyboard input.
func (m *Multiplexer) Focused() Session {
	if tab := m.Active(); tab != nil {
		return tab.Session
	}
	return nil
}

// Get returns the tab with the given id.
func (m *Multiplexer) Get(id int) (*Tab, bool) {
	if idx := m.index(id); idx >= 0 {
		return m.tabs[idx], true
	}
	return nil, false
}

// Tabs returns the tabs in display order.
func (m *Multiplexer) Tabs() []*Tab { return slices.Clone(m.tabs) }

func (m *Multiplexer) Len() int { return len(m.tabs) }

func (m *Multiplexer) index(id int) int {
	if id == 0 {
		return -1
	}
	return slices.IndexFunc(m.tabs, func(t *Tab) bool { return t.ID == id })
}
