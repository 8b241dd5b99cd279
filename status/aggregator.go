package status

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"docgate/client"
	"docgate/types"
)

// ErrAllStagesUnavailable is returned when not a single provider produced a
// usable status for the document.
var ErrAllStagesUnavailable = errors.New("all stage status services unavailable")

// StageQuerier is one stage provider's status query. *client.StageClient
// satisfies it.
type StageQuerier interface {
	Stage() types.Stage
	FetchStatus(ctx context.Context, documentID string) (json.RawMessage, error)
}

// Aggregator queries the four stage providers and folds their normalized
// statuses into a single PipelineSummary.
type Aggregator struct {
	clients map[types.Stage]StageQuerier
	now     func() time.Time
}

// NewAggregator builds an aggregator over the given stage clients.
func NewAggregator(clients ...StageQuerier) *Aggregator {
	m := make(map[types.Stage]StageQuerier, len(clients))
	for _, c := range clients {
		m[c.Stage()] = c
	}
	return &Aggregator{clients: m, now: time.Now}
}

// NewDefaultAggregator wires real HTTP clients for all four stages from the
// configured endpoints.
func NewDefaultAggregator() *Aggregator {
	queriers := make([]StageQuerier, 0, len(types.StageOrder))
	for _, stage := range types.StageOrder {
		queriers = append(queriers, client.NewStageClient(stage, ""))
	}
	return NewAggregator(queriers...)
}

// CheckStageStatus queries one provider and classifies any failure instead of
// propagating it:
//
//   - transport failure → pending with errorType=network (an unreachable
//     stage is not evidence the document failed there)
//   - provider 404       → pending with errorType=not_found (the document has
//     not reached that stage yet)
//   - anything else      → failed with errorType=other
func (a *Aggregator) CheckStageStatus(ctx context.Context, stage types.Stage, documentID string) types.StageStatus {
	querier, ok := a.clients[stage]
	if !ok {
		return a.errorStatus(stage, documentID, types.StatusFailed, types.ErrorOther, "no client configured for stage")
	}

	raw, err := querier.FetchStatus(ctx, documentID)
	if err != nil {
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) {
			if statusErr.NotFound() {
				return a.errorStatus(stage, documentID, types.StatusPending, types.ErrorNotFound, "no record for document yet")
			}
			return a.errorStatus(stage, documentID, types.StatusFailed, types.ErrorOther, statusErr.Error())
		}
		// Request never completed: connectivity, DNS, timeout.
		return a.errorStatus(stage, documentID, types.StatusPending, types.ErrorNetwork, err.Error())
	}

	st, err := mapServiceResponse(stage, documentID, raw)
	if err != nil {
		return a.errorStatus(stage, documentID, types.StatusFailed, types.ErrorOther, err.Error())
	}
	return st
}

// GetPipelineSummary queries all four providers concurrently and folds the
// results in fixed stage order. The returned summary is always usable; the
// error is non-nil only when every stage query errored out.
func (a *Aggregator) GetPipelineSummary(ctx context.Context, documentID string) (types.PipelineSummary, error) {
	statuses := make(map[types.Stage]types.StageStatus, len(types.StageOrder))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, stage := range types.StageOrder {
		wg.Add(1)
		go func(stage types.Stage) {
			defer wg.Done()
			st := a.CheckStageStatus(ctx, stage, documentID)
			mu.Lock()
			statuses[stage] = st
			mu.Unlock()
		}(stage)
	}
	wg.Wait()

	summary := foldSummary(documentID, statuses)

	// A 404 is a healthy answer ("not there yet"), so only transport
	// failures count toward the outage state.
	unreachable := 0
	for _, st := range statuses {
		if st.Metadata.ErrorType == types.ErrorNetwork {
			unreachable++
		}
	}
	if unreachable == len(types.StageOrder) {
		return summary, ErrAllStagesUnavailable
	}
	return summary, nil
}

// foldSummary walks the stages in pipeline order and reduces them to one
// overall state:
//
//  1. completed stages accumulate
//  2. the first failed stage with a non-network error is terminal
//  3. the first stage that is neither completed nor terminally failed is the
//     current stage; the walk stops there
//  4. all four completed means the pipeline is done
//
// An unreachable later stage (errorType=network) never retroactively fails
// progress already made.
func foldSummary(documentID string, statuses map[types.Stage]types.StageStatus) types.PipelineSummary {
	summary := types.PipelineSummary{
		DocumentID:      documentID,
		OverallStatus:   types.StatusPending,
		CompletedStages: []types.Stage{},
		FailedStages:    []types.Stage{},
		StageDetails:    statuses,
	}

	for _, stage := range types.StageOrder {
		st := statuses[stage]

		if st.Status == types.StatusCompleted {
			summary.CompletedStages = append(summary.CompletedStages, stage)
			continue
		}

		if st.Status == types.StatusFailed && st.Metadata.ErrorType != types.ErrorNetwork {
			summary.OverallStatus = types.StatusFailed
			summary.CurrentStage = stage
			summary.FailedStages = append(summary.FailedStages, stage)
			return summary
		}

		summary.CurrentStage = stage
		if st.Status == types.StatusProcessing {
			summary.OverallStatus = types.StatusProcessing
		} else if len(summary.CompletedStages) > 0 {
			// Earlier progress exists; a pending or unreachable later stage
			// keeps the pipeline in flight rather than pending.
			summary.OverallStatus = types.StatusProcessing
		}
		return summary
	}

	// All four stages completed.
	summary.OverallStatus = types.StatusCompleted
	summary.CurrentStage = types.StageOrder[len(types.StageOrder)-1]
	for _, stage := range types.StageOrder {
		summary.TotalProcessingTime += statuses[stage].Metadata.DurationSeconds
	}
	return summary
}

func (a *Aggregator) errorStatus(stage types.Stage, documentID string, status types.Status, errType types.ErrorType, detail string) types.StageStatus {
	return types.StageStatus{
		DocumentID: documentID,
		Stage:      stage,
		Status:     status,
		Timestamp:  a.now(),
		Metadata: types.StageMetadata{
			ErrorType: errType,
			Detail:    detail,
		},
	}
}
