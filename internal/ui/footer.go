package ui

import (
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// FlashType selects the icon and color of a flash message.
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashWarning
	FlashError
	FlashSuccess
)

func (t FlashType) icon() string {
	switch t {
	case FlashWarning:
		return "⚠"
	case FlashError:
		return "✕"
	case FlashSuccess:
		return "✓"
	default:
		return "ℹ"
	}
}

// FlashMessage is a transient footer message.
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the message has been shown long enough.
func (f *FlashMessage) IsExpired() bool {
	return time.Since(f.CreatedAt) >= f.Duration
}

// FlashTickMsg drives flash expiry.
type FlashTickMsg time.Time

// FlashTick returns a command that fires a FlashTickMsg after one interval.
func FlashTick() tea.Cmd {
	return tea.Tick(FlashTickInterval, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// Footer represents the bottom line: key hints, a notice about the active
// tab, or a flash message.
type Footer struct {
	width        int
	help         help.Model
	bindings     []key.Binding
	notice       string
	flashMessage *FlashMessage
}

// NewFooter creates a footer showing the given bindings.
func NewFooter(bindings ...key.Binding) *Footer {
	h := help.New()
	h.ShortSeparator = " · "
	return &Footer{help: h, bindings: bindings}
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetBindings replaces the key hints.
func (f *Footer) SetBindings(bindings []key.Binding) {
	f.bindings = bindings
}

// SetNotice shows text ahead of the key hints until cleared with "".
func (f *Footer) SetNotice(text string) {
	f.notice = text
}

// SetFlash shows a flash message for DefaultFlashDuration.
func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.SetFlashWithDuration(text, flashType, DefaultFlashDuration)
}

func (f *Footer) SetFlashWithDuration(text string, flashType FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{
		Text:      text,
		Type:      flashType,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// ClearIfExpired clears an expired flash and reports whether it did.
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

// View renders the footer
func (f *Footer) View() string {
	var content string
	if f.flashMessage != nil {
		style := FlashInfoStyle
		switch f.flashMessage.Type {
		case FlashWarning:
			style = FlashWarningStyle
		case FlashError:
			style = FlashErrorStyle
		case FlashSuccess:
			style = FlashSuccessStyle
		}
		content = style.Render(f.flashMessage.Type.icon() + " " + f.flashMessage.Text)
	} else {
		f.help.Styles.ShortKey = FooterKeyStyle
		f.help.Styles.ShortDesc = FooterDescStyle
		f.help.Styles.ShortSeparator = FooterSepStyle
		content = f.help.ShortHelpView(f.bindings)
		if f.notice != "" {
			content = ExitedBannerStyle.Render(f.notice) + "  " + content
		}
	}

	if f.width <= 0 {
		return FooterStyle.Render(content)
	}
	inner := max(f.width-2, 1) // FooterStyle padding
	return FooterStyle.Width(f.width).Render(ansi.Truncate(content, inner, "…"))
}
