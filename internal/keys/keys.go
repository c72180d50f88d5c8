// Package keys provides string constants for the Bubble Tea v2 key presses
// that tabterm intercepts before they reach a shell.
//
// These constants are derived from tea.KeyPressMsg{...}.String() so they
// always match the runtime values. Everything not listed here is forwarded
// to the active session.
package keys

import tea "charm.land/bubbletea/v2"

// Tab management
var (
	CtrlT = (tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl}).String() // "ctrl+t"
	CtrlW = (tea.KeyPressMsg{Code: 'w', Mod: tea.ModCtrl}).String() // "ctrl+w"
	CtrlQ = (tea.KeyPressMsg{Code: 'q', Mod: tea.ModCtrl}).String() // "ctrl+q"
)

// Tab rotation
var (
	CtrlShiftRight = (tea.KeyPressMsg{Code: tea.KeyRight, Mod: tea.ModCtrl | tea.ModShift}).String() // "ctrl+shift+right"
	CtrlShiftLeft  = (tea.KeyPressMsg{Code: tea.KeyLeft, Mod: tea.ModCtrl | tea.ModShift}).String()  // "ctrl+shift+left"
	CtrlPgDown     = (tea.KeyPressMsg{Code: tea.KeyPgDown, Mod: tea.ModCtrl}).String()               // "ctrl+pgdown"
	CtrlPgUp       = (tea.KeyPressMsg{Code: tea.KeyPgUp, Mod: tea.ModCtrl}).String()                 // "ctrl+pgup"
)
