package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"docgate/types"
)

// Model is the tracking client's state: a thin view over whatever the last
// summary poll returned.
type Model struct {
	Client     *TrackerClient
	DocumentID string

	Summary     *types.PipelineSummary
	Unavailable bool
	Connected   bool
	Err         error

	// Attempts drives the escalating poll backoff.
	Attempts int
	Done     bool
}

// NewModel creates a model tracking one document.
func NewModel(apiURL, documentID string) Model {
	return Model{
		Client:     NewTrackerClient(apiURL),
		DocumentID: documentID,
	}
}

// Init implements tea.Model: start polling immediately.
func (m Model) Init() tea.Cmd {
	return pollSummary(m.Client, m.DocumentID)
}
