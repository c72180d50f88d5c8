package input

import (
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
)

var namedKeys = map[rune]Key{
	tea.KeyEscape:    KeyEscape,
	tea.KeyEnter:     KeyEnter,
	tea.KeyTab:       KeyTab,
	tea.KeyBackspace: KeyBackspace,
	tea.KeyDelete:    KeyDelete,
	tea.KeyUp:        KeyUp,
	tea.KeyDown:      KeyDown,
	tea.KeyRight:     KeyRight,
	tea.KeyLeft:      KeyLeft,
	tea.KeyHome:      KeyHome,
	tea.KeyEnd:       KeyEnd,
	tea.KeyPgUp:      KeyPgUp,
	tea.KeyPgDown:    KeyPgDown,
	tea.KeyInsert:    KeyInsert,
	tea.KeyF1:        KeyF1,
	tea.KeyF2:        KeyF2,
	tea.KeyF3:        KeyF3,
	tea.KeyF4:        KeyF4,
	tea.KeyF5:        KeyF5,
	tea.KeyF6:        KeyF6,
	tea.KeyF7:        KeyF7,
	tea.KeyF8:        KeyF8,
	tea.KeyF9:        KeyF9,
	tea.KeyF10:       KeyF10,
	tea.KeyF11:       KeyF11,
	tea.KeyF12:       KeyF12,
}

// FromKeyPress converts a Bubble Tea key press into an Event.
func FromKeyPress(msg tea.KeyPressMsg) Event {
	var mod Mod
	if msg.Mod&tea.ModCtrl != 0 {
		mod |= ModCtrl
	}
	if msg.Mod&tea.ModAlt != 0 {
		mod |= ModAlt
	}

	if k, ok := namedKeys[msg.Code]; ok {
		return Event{Key: k, Mod: mod}
	}

	// Text carries the shifted character or whole grapheme cluster for plain
	// typing; with ctrl or alt held it is empty and Code holds the base key.
	if msg.Text != "" {
		r, _ := utf8.DecodeRuneInString(msg.Text)
		return Event{Char: r, Text: msg.Text, Mod: mod}
	}
	return Event{Char: msg.Code, Mod: mod}
}
