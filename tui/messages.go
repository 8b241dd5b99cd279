package tui

import "time"

// Messages for the tea program (polling-based)

// SummaryMsg is sent when a summary poll returns.
type SummaryMsg struct {
	Result *SummaryResult
	Err    error
}

// TickMsg is sent when the backoff delay elapses and the next poll is due.
type TickMsg struct {
	Time time.Time
}
