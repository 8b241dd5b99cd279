package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"docgate/config"
)

// pollSummary creates a command to fetch the current pipeline summary
func pollSummary(client *TrackerClient, documentID string) tea.Cmd {
	return func() tea.Msg {
		result, err := client.GetSummary(documentID)
		return SummaryMsg{Result: result, Err: err}
	}
}

// tickAfter schedules the next poll after the backoff delay for the given
// attempt count (5s → 10s → 30s → 60s).
func tickAfter(attempt int) tea.Cmd {
	return tea.Tick(backoffFor(attempt), func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func backoffFor(attempt int) time.Duration {
	schedule := config.SummaryBackoff
	if attempt >= len(schedule) {
		return schedule[len(schedule)-1]
	}
	return schedule[attempt]
}
