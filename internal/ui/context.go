package ui

import (
	"log/slog"

	"github.com/zhubert/tabterm/internal/logger"
)

// ViewContext holds the layout calculations. All size math goes through it
// so the sessions and the renderer agree on the content area.
type ViewContext struct {
	// Terminal dimensions
	TerminalWidth  int
	TerminalHeight int

	// Calculated dimensions
	TabBarHeight  int
	FooterHeight  int
	ContentWidth  int
	ContentHeight int

	log *slog.Logger
}

// NewViewContext returns a context for a terminal of unknown size.
func NewViewContext() *ViewContext {
	return &ViewContext{
		TabBarHeight: TabBarHeight,
		FooterHeight: FooterHeight,
		log:          logger.WithComponent("ui"),
	}
}

// UpdateTerminalSize recalculates all dimensions when the terminal size
// changes.
func (v *ViewContext) UpdateTerminalSize(width, height int) {
	// Validate dimensions to prevent negative layout values
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if height < MinTerminalHeight {
		height = MinTerminalHeight
	}

	v.TerminalWidth = width
	v.TerminalHeight = height

	// The shell gets everything between the tab bar and the footer.
	v.ContentWidth = width
	v.ContentHeight = height - v.TabBarHeight - v.FooterHeight

	v.log.Debug("terminal size updated",
		"width", width,
		"height", height,
		"contentWidth", v.ContentWidth,
		"contentHeight", v.ContentHeight,
	)
}

// Ready reports whether a window size has been received.
func (v *ViewContext) Ready() bool {
	return v.TerminalWidth > 0 && v.TerminalHeight > 0
}
