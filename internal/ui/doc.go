// Package ui provides the visual components of the tabterm TUI.
//
// # Layout
//
//	┌─────────────────────────────────────────────────────┐
//	│ tabterm │ shell-1 │ shell-2 │ shell-3 [exited]      │  tab bar (1 line)
//	├─────────────────────────────────────────────────────┤
//	│                                                     │
//	│   active session's screen                           │
//	│                                                     │
//	├─────────────────────────────────────────────────────┤
//	│ ctrl+t new · ctrl+w close · ...                     │  footer (1 line)
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// ViewContext computes the content area every session is sized to.
//
// TabBar renders the tabs in order, highlights the active one, marks exited
// ones, and maps mouse clicks back to tab ids.
//
// Footer shows key hints through bubbles/help, replaced by a flash message
// while one is active.
//
// RenderScreen pulls cells from a terminal.Screen row by row and renders
// runs of equal style with Lip Gloss.
package ui
