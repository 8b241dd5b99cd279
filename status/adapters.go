// Package status reduces the four stage providers' divergent status
// responses into one coherent pipeline view and drives the client-facing
// polling loop.
package status

import (
	"encoding/json"
	"fmt"
	"time"

	"docgate/types"
)

// Each provider exposes GET /status/{id} with its own response schema and
// status vocabulary. One adapter per provider translates into the canonical
// StageStatus; the vocabulary tables are fixed and explicit, never inferred
// from sample data.

// ingestionResponse is the ingestion provider's shape (this service's own
// /api/ingestion endpoint serves it too).
type ingestionResponse struct {
	DocumentID       string    `json:"document_id"`
	ValidationStatus string    `json:"validation_status"`
	ValidatedAt      time.Time `json:"validated_at"`
	Details          string    `json:"details,omitempty"`
}

var ingestionVocabulary = map[string]types.Status{
	"uploaded":    types.StatusPending,
	"pending":     types.StatusPending,
	"validating":  types.StatusProcessing,
	"validated":   types.StatusCompleted,
	"rejected":    types.StatusFailed,
	"quarantined": types.StatusFailed,
}

// processingResponse is the content processing provider's shape.
type processingResponse struct {
	ID              string    `json:"id"`
	State           string    `json:"state"`
	UpdatedAt       time.Time `json:"updated_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	Error           string    `json:"error,omitempty"`
}

var processingVocabulary = map[string]types.Status{
	"queued":   types.StatusPending,
	"chunking": types.StatusProcessing,
	"chunked":  types.StatusCompleted,
	"failed":   types.StatusFailed,
}

// embeddingResponse is the embedding provider's shape. It reports
// execution_time instead of a dedicated duration field.
type embeddingResponse struct {
	DocID           string    `json:"doc_id"`
	EmbeddingStatus string    `json:"embedding_status"`
	Timestamp       time.Time `json:"timestamp"`
	ExecutionTime   float64   `json:"execution_time"`
	Message         string    `json:"message,omitempty"`
}

var embeddingVocabulary = map[string]types.Status{
	"waiting":   types.StatusPending,
	"embedding": types.StatusProcessing,
	"embedded":  types.StatusCompleted,
	"error":     types.StatusFailed,
}

// storageResponse is the vector storage provider's shape.
type storageResponse struct {
	DocumentID     string    `json:"documentId"`
	Phase          string    `json:"phase"`
	CompletedAt    time.Time `json:"completedAt"`
	ElapsedSeconds float64   `json:"elapsedSeconds"`
	FailureReason  string    `json:"failureReason,omitempty"`
}

var storageVocabulary = map[string]types.Status{
	"received": types.StatusPending,
	"indexing": types.StatusProcessing,
	"indexed":  types.StatusCompleted,
	"failed":   types.StatusFailed,
}

// mapServiceResponse normalizes one provider's raw JSON into a canonical
// StageStatus. The adapter is selected by the stage the provider represents.
func mapServiceResponse(stage types.Stage, documentID string, raw json.RawMessage) (types.StageStatus, error) {
	st := types.StageStatus{
		DocumentID: documentID,
		Stage:      stage,
	}

	switch stage {
	case types.StageIngestion:
		var resp ingestionResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return st, fmt.Errorf("decode ingestion response: %w", err)
		}
		mapped, ok := ingestionVocabulary[resp.ValidationStatus]
		if !ok {
			return st, fmt.Errorf("unknown ingestion status %q", resp.ValidationStatus)
		}
		st.Status = mapped
		st.Timestamp = resp.ValidatedAt
		st.Metadata.Detail = resp.Details

	case types.StageProcessing:
		var resp processingResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return st, fmt.Errorf("decode processing response: %w", err)
		}
		mapped, ok := processingVocabulary[resp.State]
		if !ok {
			return st, fmt.Errorf("unknown processing state %q", resp.State)
		}
		st.Status = mapped
		st.Timestamp = resp.UpdatedAt
		st.Metadata.Detail = resp.Error
		st.Metadata.DurationSeconds = resp.DurationSeconds

	case types.StageEmbedding:
		var resp embeddingResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return st, fmt.Errorf("decode embedding response: %w", err)
		}
		mapped, ok := embeddingVocabulary[resp.EmbeddingStatus]
		if !ok {
			return st, fmt.Errorf("unknown embedding status %q", resp.EmbeddingStatus)
		}
		st.Status = mapped
		st.Timestamp = resp.Timestamp
		st.Metadata.Detail = resp.Message
		// No dedicated duration field; execution time stands in.
		st.Metadata.DurationSeconds = resp.ExecutionTime

	case types.StageVectorStorage:
		var resp storageResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return st, fmt.Errorf("decode vector storage response: %w", err)
		}
		mapped, ok := storageVocabulary[resp.Phase]
		if !ok {
			return st, fmt.Errorf("unknown vector storage phase %q", resp.Phase)
		}
		st.Status = mapped
		st.Timestamp = resp.CompletedAt
		st.Metadata.Detail = resp.FailureReason
		st.Metadata.DurationSeconds = resp.ElapsedSeconds

	default:
		return st, fmt.Errorf("no adapter for stage %q", stage)
	}

	return st, nil
}
