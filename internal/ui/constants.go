// Package ui provides constants for layout calculations and configuration.
package ui

import "time"

// Layout constants
const (
	// TabBarHeight is the height of the tab bar in lines
	TabBarHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// MinTerminalWidth and MinTerminalHeight keep the content area non-empty
	// on absurdly small terminals.
	MinTerminalWidth  = 20
	MinTerminalHeight = TabBarHeight + FooterHeight + 1

	// MaxTabTitleWidth caps the cells one tab label may take
	MaxTabTitleWidth = 24
)

// Flash timing
const (
	DefaultFlashDuration = 5 * time.Second
	FlashTickInterval    = time.Second
)
