package status

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgate/types"
)

// scriptedSource replays a fixed sequence of summary results, then repeats
// the last one. Stage checks return stageStatus unconditionally.
type scriptedSource struct {
	summaries   []types.PipelineSummary
	errs        []error
	stageStatus types.StageStatus

	summaryCalls int
	stageCalls   int
}

func (s *scriptedSource) GetPipelineSummary(ctx context.Context, documentID string) (types.PipelineSummary, error) {
	i := s.summaryCalls
	if i >= len(s.summaries) {
		i = len(s.summaries) - 1
	}
	s.summaryCalls++
	return s.summaries[i], s.errs[i]
}

func (s *scriptedSource) CheckStageStatus(ctx context.Context, stage types.Stage, documentID string) types.StageStatus {
	s.stageCalls++
	return s.stageStatus
}

func newTestTracker(source SummarySource) *Tracker {
	t := NewTracker(source)
	t.StageInterval = time.Millisecond
	t.Backoff = []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}
	t.MaxAttempts = 10
	return t
}

func inFlightSummary(id string) types.PipelineSummary {
	return types.PipelineSummary{
		DocumentID:      id,
		OverallStatus:   types.StatusProcessing,
		CurrentStage:    types.StageProcessing,
		CompletedStages: []types.Stage{types.StageIngestion},
	}
}

func doneSummary(id string) types.PipelineSummary {
	return types.PipelineSummary{
		DocumentID:      id,
		OverallStatus:   types.StatusCompleted,
		CurrentStage:    types.StageVectorStorage,
		CompletedStages: types.StageOrder,
	}
}

func TestTrackDocumentStopsAtTerminalState(t *testing.T) {
	source := &scriptedSource{
		summaries: []types.PipelineSummary{
			inFlightSummary("doc1"),
			inFlightSummary("doc1"),
			doneSummary("doc1"),
		},
		errs: []error{nil, nil, nil},
	}
	tracker := newTestTracker(source)

	var observed []types.PipelineSummary
	summary, err := tracker.TrackDocument(context.Background(), "doc1", func(s types.PipelineSummary) {
		observed = append(observed, s)
	})

	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, summary.OverallStatus)
	assert.Equal(t, 3, source.summaryCalls, "polling must stop at the terminal summary")
	assert.Len(t, observed, 3, "observer fires once per successful poll")
}

func TestTrackDocumentBoundedWaitReturnsLastSummary(t *testing.T) {
	source := &scriptedSource{
		summaries: []types.PipelineSummary{inFlightSummary("doc1")},
		errs:      []error{nil},
	}
	tracker := newTestTracker(source)
	tracker.MaxAttempts = 4

	summary, err := tracker.TrackDocument(context.Background(), "doc1", nil)

	require.NoError(t, err)
	assert.Equal(t, types.StatusProcessing, summary.OverallStatus)
	assert.Equal(t, 4, source.summaryCalls)
}

func TestTrackDocumentRecoversFromTransientFailures(t *testing.T) {
	source := &scriptedSource{
		summaries: []types.PipelineSummary{
			{},
			{},
			doneSummary("doc1"),
		},
		errs: []error{ErrAllStagesUnavailable, ErrAllStagesUnavailable, nil},
	}
	tracker := newTestTracker(source)

	summary, err := tracker.TrackDocument(context.Background(), "doc1", nil)

	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, summary.OverallStatus)
	assert.Equal(t, 0, source.stageCalls, "two failures stay under the threshold")
}

func TestTrackDocumentDegradesAfterThreshold(t *testing.T) {
	source := &scriptedSource{
		summaries: []types.PipelineSummary{{}},
		errs:      []error{ErrAllStagesUnavailable},
		stageStatus: types.StageStatus{
			DocumentID: "doc1",
			Stage:      types.StageIngestion,
			Status:     types.StatusCompleted,
		},
	}
	tracker := newTestTracker(source)

	summary, err := tracker.TrackDocument(context.Background(), "doc1", nil)

	require.NoError(t, err)
	assert.Equal(t, 3, source.summaryCalls)
	assert.Equal(t, 1, source.stageCalls, "third consecutive failure triggers the ingestion-only check")
	assert.Equal(t, types.StatusProcessing, summary.OverallStatus)
	assert.Equal(t, []types.Stage{types.StageIngestion}, summary.CompletedStages)
}

func TestDegradedCheckReportsTotalOutage(t *testing.T) {
	source := &scriptedSource{
		summaries: []types.PipelineSummary{{}},
		errs:      []error{ErrAllStagesUnavailable},
		stageStatus: types.StageStatus{
			DocumentID: "doc1",
			Stage:      types.StageIngestion,
			Status:     types.StatusPending,
			Metadata:   types.StageMetadata{ErrorType: types.ErrorNetwork, Detail: "connection refused"},
		},
	}
	tracker := newTestTracker(source)

	var observed []types.PipelineSummary
	summary, err := tracker.TrackDocument(context.Background(), "doc1", func(s types.PipelineSummary) {
		observed = append(observed, s)
	})

	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, summary.OverallStatus)
	assert.Equal(t, []types.Stage{types.StageIngestion}, summary.FailedStages)
	assert.Equal(t, "all status services unavailable", summary.StageDetails[types.StageIngestion].Metadata.Detail)
	require.Len(t, observed, 1, "the degraded summary still reaches the observer")
}

func TestTrackDocumentHonorsContextCancellation(t *testing.T) {
	source := &scriptedSource{
		summaries: []types.PipelineSummary{inFlightSummary("doc1")},
		errs:      []error{nil},
	}
	tracker := newTestTracker(source)
	tracker.Backoff = []time.Duration{time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	summary, err := tracker.TrackDocument(ctx, "doc1", nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, types.StatusProcessing, summary.OverallStatus, "last summary survives cancellation")
}

func TestBackoffEscalatesAndClamps(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Backoff = []time.Duration{5 * time.Second, 10 * time.Second, 30 * time.Second, 60 * time.Second}

	assert.Equal(t, 5*time.Second, tracker.backoffFor(0))
	assert.Equal(t, 10*time.Second, tracker.backoffFor(1))
	assert.Equal(t, 30*time.Second, tracker.backoffFor(2))
	assert.Equal(t, 60*time.Second, tracker.backoffFor(3))
	assert.Equal(t, 60*time.Second, tracker.backoffFor(17))
}

func TestWaitForStageCompletes(t *testing.T) {
	source := &scriptedSource{
		stageStatus: types.StageStatus{
			Stage:  types.StageEmbedding,
			Status: types.StatusCompleted,
		},
	}
	tracker := newTestTracker(source)

	st, err := tracker.WaitForStage(context.Background(), types.StageEmbedding, "doc1")

	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, st.Status)
	assert.Equal(t, 1, source.stageCalls)
}

func TestWaitForStageTerminalFailure(t *testing.T) {
	source := &scriptedSource{
		stageStatus: types.StageStatus{
			Stage:    types.StageProcessing,
			Status:   types.StatusFailed,
			Metadata: types.StageMetadata{ErrorType: types.ErrorOther, Detail: "chunker panic"},
		},
	}
	tracker := newTestTracker(source)

	_, err := tracker.WaitForStage(context.Background(), types.StageProcessing, "doc1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunker panic")
	assert.Equal(t, 1, source.stageCalls)
}

func TestWaitForStageKeepsPollingThroughNetworkErrors(t *testing.T) {
	source := &scriptedSource{
		stageStatus: types.StageStatus{
			Stage:    types.StageProcessing,
			Status:   types.StatusPending,
			Metadata: types.StageMetadata{ErrorType: types.ErrorNetwork},
		},
	}
	tracker := newTestTracker(source)
	tracker.StageMaxAttempts = 5

	_, err := tracker.WaitForStage(context.Background(), types.StageProcessing, "doc1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not finish")
	assert.Equal(t, 5, source.stageCalls)
}
