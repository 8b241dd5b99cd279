package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case SummaryMsg:
		return m.handleSummary(msg)
	case TickMsg:
		return m, pollSummary(m.Client, m.DocumentID)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}
	return m, nil
}

// handleSummary stores the poll result and schedules the next poll unless the
// pipeline reached a terminal state.
func (m Model) handleSummary(msg SummaryMsg) (tea.Model, tea.Cmd) {
	m.Attempts++

	if msg.Err != nil {
		m.Connected = false
		m.Err = msg.Err
		// Keep polling; the tracker service may just not be up yet.
		return m, tickAfter(m.Attempts)
	}

	m.Connected = true
	m.Err = nil
	m.Unavailable = msg.Result.Unavailable
	m.Summary = &msg.Result.Summary

	if m.Summary.Terminal() {
		m.Done = true
		return m, nil
	}

	return m, tickAfter(m.Attempts)
}
