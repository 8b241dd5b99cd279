package config

import "time"

// Intake Validation Constants
const (
	// MaxDocumentSize is the hard size cap for uploaded documents (100 MiB)
	MaxDocumentSize = 100 * 1024 * 1024

	// LargeDocumentSize marks documents that get low routing priority
	LargeDocumentSize = 50 * 1024 * 1024

	// QuarantinePrefix is the key prefix for quarantine copies
	QuarantinePrefix = "quarantine/"

	// ValidatorIdentity is recorded in the validated-by object tag
	ValidatorIdentity = "docgate-intake"
)

// Status Polling Constants
const (
	// StageRequestTimeout is the per-request timeout for stage status queries
	StageRequestTimeout = 10 * time.Second

	// StagePollInterval is the fixed delay between polls of a single stage
	StagePollInterval = 3 * time.Second

	// StagePollMaxAttempts bounds a blocking single-stage wait (~2 minutes)
	StagePollMaxAttempts = 40

	// SummaryPollMaxAttempts bounds an end-to-end tracking loop (~15 minutes
	// at the top of the backoff schedule)
	SummaryPollMaxAttempts = 20

	// MaxConsecutiveFailures is how many summary fetches may fail in a row
	// before the tracker degrades to an ingestion-only check
	MaxConsecutiveFailures = 3
)

// SummaryBackoff is the escalating delay between whole-summary polls.
// Attempts beyond the schedule reuse the last entry.
var SummaryBackoff = []time.Duration{
	5 * time.Second,
	10 * time.Second,
	30 * time.Second,
	60 * time.Second,
}

// Retention Constants
const (
	// RejectedRetention is how long rejected objects are kept in place for
	// inspection before the sweeper deletes them
	RejectedRetention = 7 * 24 * time.Hour

	// SweepSchedule runs the retention sweep daily at 03:00
	SweepSchedule = "0 3 * * *"
)
