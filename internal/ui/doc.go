// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a live task panel with one tab per event kind (habits,
// dailies, todos). Tabs are populated through hub subscriptions in the
// panel listener group, so any sync or refresh elsewhere in the process
// updates the board. Views:
//  1. [BoardView] : Browse tasks by kind
//  2. [SyncView] : Monitor real-time sync progress
//  3. [ResultView] : Display the outcome of the last sync
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the NoteEngine, providing
// non-blocking status reporting during syncs.
//
// Keyboard navigation uses vim-style bindings (j/k, h/l, r, s, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
