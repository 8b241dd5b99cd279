package types

import "time"

// Stage identifies one of the four pipeline phases, each owned by an
// independent service.
type Stage string

const (
	StageIngestion     Stage = "ingestion"
	StageProcessing    Stage = "processing"
	StageEmbedding     Stage = "embedding"
	StageVectorStorage Stage = "vector-storage"
)

// StageOrder is the fixed order documents move through the pipeline.
var StageOrder = []Stage{StageIngestion, StageProcessing, StageEmbedding, StageVectorStorage}

// Status is the canonical stage status vocabulary. Provider-specific
// vocabularies are normalized into this set.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ErrorType classifies why a stage query did not produce a real status.
type ErrorType string

const (
	// ErrorNetwork means the request could not complete at all. The stage may
	// simply not be deployed or reachable yet.
	ErrorNetwork ErrorType = "network"
	// ErrorNotFound means the provider answered but has no record for the
	// document. It has not reached that stage yet.
	ErrorNotFound ErrorType = "not_found"
	// ErrorOther is any other failure and counts as a real stage failure.
	ErrorOther ErrorType = "other"
)

// StageMetadata carries provider details attached to a normalized status.
type StageMetadata struct {
	ErrorType       ErrorType `json:"error_type,omitempty"`
	Detail          string    `json:"detail,omitempty"`
	DurationSeconds float64   `json:"duration_seconds,omitempty"`
}

// StageStatus is the canonical, normalized status of one document at one
// stage. It is recomputed on every poll and never persisted.
type StageStatus struct {
	DocumentID string        `json:"document_id"`
	Stage      Stage         `json:"stage"`
	Status     Status        `json:"status"`
	Timestamp  time.Time     `json:"timestamp"`
	Metadata   StageMetadata `json:"metadata"`
}

// PipelineSummary is the single reduced view of all four stage statuses for
// one document, rebuilt fresh on each poll cycle.
type PipelineSummary struct {
	DocumentID          string                `json:"document_id"`
	OverallStatus       Status                `json:"overall_status"`
	CurrentStage        Stage                 `json:"current_stage"`
	CompletedStages     []Stage               `json:"completed_stages"`
	FailedStages        []Stage               `json:"failed_stages"`
	TotalProcessingTime float64               `json:"total_processing_time,omitempty"`
	StageDetails        map[Stage]StageStatus `json:"stage_details"`
}

// Terminal reports whether polling for this document can stop.
func (s PipelineSummary) Terminal() bool {
	return s.OverallStatus == StatusCompleted || s.OverallStatus == StatusFailed
}
