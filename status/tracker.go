package status

import (
	"context"
	"fmt"
	"log"
	"time"

	"docgate/config"
	"docgate/types"
)

// SummarySource is what the tracker needs from the aggregator.
type SummarySource interface {
	GetPipelineSummary(ctx context.Context, documentID string) (types.PipelineSummary, error)
	CheckStageStatus(ctx context.Context, stage types.Stage, documentID string) types.StageStatus
}

// Observer is notified once per poll cycle with the freshly built summary.
type Observer func(types.PipelineSummary)

// Tracker drives the client-facing polling loops: a blocking single-stage
// wait and a whole-summary loop with escalating backoff and a degraded
// fallback after repeated failures.
//
// All counters (attempts, consecutive errors) are loop-local; a Tracker can
// track any number of documents concurrently.
type Tracker struct {
	source SummarySource

	StageInterval    time.Duration
	StageMaxAttempts int
	Backoff          []time.Duration
	MaxAttempts      int
	FailureThreshold int
}

// NewTracker creates a tracker with the configured polling cadence.
func NewTracker(source SummarySource) *Tracker {
	return &Tracker{
		source:           source,
		StageInterval:    config.StagePollInterval,
		StageMaxAttempts: config.StagePollMaxAttempts,
		Backoff:          config.SummaryBackoff,
		MaxAttempts:      config.SummaryPollMaxAttempts,
		FailureThreshold: config.MaxConsecutiveFailures,
	}
}

// WaitForStage polls a single stage at a fixed interval until it completes,
// terminally fails, or the attempt budget runs out. Network errors and
// missing records count as "not yet" and keep polling.
func (t *Tracker) WaitForStage(ctx context.Context, stage types.Stage, documentID string) (types.StageStatus, error) {
	var last types.StageStatus

	for attempt := 0; attempt < t.StageMaxAttempts; attempt++ {
		last = t.source.CheckStageStatus(ctx, stage, documentID)

		switch {
		case last.Status == types.StatusCompleted:
			return last, nil
		case last.Status == types.StatusFailed && last.Metadata.ErrorType != types.ErrorNetwork:
			return last, fmt.Errorf("stage %s failed: %s", stage, last.Metadata.Detail)
		}

		if err := sleep(ctx, t.StageInterval); err != nil {
			return last, err
		}
	}

	return last, fmt.Errorf("stage %s did not finish within %d attempts", stage, t.StageMaxAttempts)
}

// TrackDocument polls the full pipeline summary until the document reaches a
// terminal state or the attempt budget runs out. Successive polls back off
// along t.Backoff to bound request volume on long-running pipelines.
//
// After FailureThreshold consecutive summary failures the tracker degrades to
// an ingestion-only check instead of continuing to fail the full aggregation.
func (t *Tracker) TrackDocument(ctx context.Context, documentID string, observer Observer) (types.PipelineSummary, error) {
	var last types.PipelineSummary
	consecutiveErrors := 0

	for attempt := 0; attempt < t.MaxAttempts; attempt++ {
		summary, err := t.source.GetPipelineSummary(ctx, documentID)
		if err != nil {
			consecutiveErrors++
			log.Printf("summary fetch for %s failed (%d consecutive): %v", documentID, consecutiveErrors, err)

			if consecutiveErrors >= t.FailureThreshold {
				return t.degradedCheck(ctx, documentID, observer)
			}
		} else {
			consecutiveErrors = 0
			last = summary

			if observer != nil {
				observer(summary)
			}
			if summary.Terminal() {
				return summary, nil
			}
		}

		if err := sleep(ctx, t.backoffFor(attempt)); err != nil {
			return last, err
		}
	}

	// Bounded wait: report whatever state the pipeline is in.
	return last, nil
}

// degradedCheck reports from the ingestion stage alone. If even that is
// unavailable, the document is reported failed/unavailable rather than
// erroring out of the tracking loop.
func (t *Tracker) degradedCheck(ctx context.Context, documentID string, observer Observer) (types.PipelineSummary, error) {
	log.Printf("degrading to ingestion-only status check for %s", documentID)

	st := t.source.CheckStageStatus(ctx, types.StageIngestion, documentID)

	summary := types.PipelineSummary{
		DocumentID:      documentID,
		CurrentStage:    types.StageIngestion,
		CompletedStages: []types.Stage{},
		FailedStages:    []types.Stage{},
		StageDetails:    map[types.Stage]types.StageStatus{types.StageIngestion: st},
	}

	switch {
	case st.Metadata.ErrorType == types.ErrorNetwork:
		summary.OverallStatus = types.StatusFailed
		summary.FailedStages = append(summary.FailedStages, types.StageIngestion)
		st.Metadata.Detail = "all status services unavailable"
		summary.StageDetails[types.StageIngestion] = st
	case st.Status == types.StatusFailed && st.Metadata.ErrorType != types.ErrorNetwork:
		summary.OverallStatus = types.StatusFailed
		summary.FailedStages = append(summary.FailedStages, types.StageIngestion)
	case st.Status == types.StatusCompleted:
		// Ingestion done, later stages unknown: still in flight.
		summary.OverallStatus = types.StatusProcessing
		summary.CompletedStages = append(summary.CompletedStages, types.StageIngestion)
	default:
		summary.OverallStatus = st.Status
	}

	if observer != nil {
		observer(summary)
	}
	return summary, nil
}

// backoffFor returns the delay after the given zero-based attempt, clamping
// to the last schedule entry.
func (t *Tracker) backoffFor(attempt int) time.Duration {
	if len(t.Backoff) == 0 {
		return config.StagePollInterval
	}
	if attempt >= len(t.Backoff) {
		return t.Backoff[len(t.Backoff)-1]
	}
	return t.Backoff[attempt]
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
