// Package input translates key events into the bytes a shell expects on
// its terminal.
package input

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Key names a non-character key.
type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDown
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	keyCount // sentinel, keep last
)

func (k Key) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeyEscape:
		return "escape"
	case KeyEnter:
		return "enter"
	case KeyTab:
		return "tab"
	case KeyBackspace:
		return "backspace"
	case KeyDelete:
		return "delete"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyRight:
		return "right"
	case KeyLeft:
		return "left"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	case KeyPgUp:
		return "pageup"
	case KeyPgDown:
		return "pagedown"
	case KeyInsert:
		return "insert"
	case KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6, KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12:
		return "f" + strconv.Itoa(int(k-KeyF1)+1)
	}
	return "unknown"
}

// Sequence returns the bytes a terminal sends for k, or "" for KeyNone and
// out-of-range values.
func (k Key) Sequence() string {
	switch k {
	case KeyEscape:
		return "\x1b"
	case KeyEnter:
		return "\r"
	case KeyTab:
		return "\t"
	case KeyBackspace:
		return "\x7f"
	case KeyDelete:
		return "\x1b[3~"
	case KeyUp:
		return "\x1b[A"
	case KeyDown:
		return "\x1b[B"
	case KeyRight:
		return "\x1b[C"
	case KeyLeft:
		return "\x1b[D"
	case KeyHome:
		return "\x1b[H"
	case KeyEnd:
		return "\x1b[F"
	case KeyPgUp:
		return "\x1b[5~"
	case KeyPgDown:
		return "\x1b[6~"
	case KeyInsert:
		return "\x1b[2~"
	case KeyF1:
		return "\x1bOP"
	case KeyF2:
		return "\x1bOQ"
	case KeyF3:
		return "\x1bOR"
	case KeyF4:
		return "\x1bOS"
	case KeyF5:
		return "\x1b[15~"
	case KeyF6:
		return "\x1b[17~"
	case KeyF7:
		return "\x1b[18~"
	case KeyF8:
		return "\x1b[19~"
	case KeyF9:
		return "\x1b[20~"
	case KeyF10:
		return "\x1b[21~"
	case KeyF11:
		return "\x1b[23~"
	case KeyF12:
		return "\x1b[24~"
	}
	return ""
}

// Mod is a set of modifier flags. Shift is never reported separately; it is
// already applied to Char.
type Mod uint8

const (
	ModCtrl Mod = 1 << iota
	ModAlt
)

// Event is a key press: either a named Key or a literal Char, plus modifiers.
// Text, when set, is the whole typed text (a grapheme cluster or an IME
// commit) and Char is its first rune.
type Event struct {
	Key  Key
	Char rune
	Text string
	Mod  Mod
}

// Translate returns the bytes to write to a shell for ev. Events with no
// terminal meaning return nil.
func Translate(ev Event) []byte {
	if ev.Key != KeyNone {
		if ev.Mod != 0 {
			return nil
		}
		if seq := ev.Key.Sequence(); seq != "" {
			return []byte(seq)
		}
		return nil
	}

	switch ev.Mod {
	case ModCtrl:
		if b, ok := controlCode(ev.Char); ok {
			return []byte{b}
		}
		return nil
	case 0:
		if ev.Text != "" {
			if !printableText(ev.Text) {
				return nil
			}
			return []byte(ev.Text)
		}
		if ev.Char == 0 || !unicode.IsPrint(ev.Char) || !utf8.ValidRune(ev.Char) {
			return nil
		}
		return utf8.AppendRune(nil, ev.Char)
	}
	return nil
}

// printableText reports whether s is valid UTF-8 with no control runes.
// Joiners and combining marks inside a cluster are allowed.
func printableText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// controlCode maps a letter to its C0 control: ctrl+a is 0x01 through
// ctrl+z at 0x1a. Case does not matter.
func controlCode(r rune) (byte, bool) {
	r = unicode.ToLower(r)
	if r < 'a' || r > 'z' {
		return 0, false
	}
	return byte(r-'a') + 1, true
}
