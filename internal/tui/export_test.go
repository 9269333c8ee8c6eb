package tui

import tea "github.com/charmbracelet/bubbletea"

// OpDone returns the message sent when an operation settles.
func OpDone() tea.Msg { return opDoneMsg{} }

// IsOpDone reports whether msg is an operation completion.
func IsOpDone(msg tea.Msg) bool {
	_, ok := msg.(opDoneMsg)
	return ok
}
