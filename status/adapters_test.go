package status

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgate/types"
)

func TestIngestionAdapterVocabulary(t *testing.T) {
	tests := []struct {
		token string
		want  types.Status
	}{
		{"uploaded", types.StatusPending},
		{"pending", types.StatusPending},
		{"validating", types.StatusProcessing},
		{"validated", types.StatusCompleted},
		{"rejected", types.StatusFailed},
		{"quarantined", types.StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			raw := json.RawMessage(`{"document_id":"doc1","validation_status":"` + tt.token + `","validated_at":"2025-06-01T12:00:00Z"}`)
			st, err := mapServiceResponse(types.StageIngestion, "doc1", raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.Status)
			assert.Equal(t, types.StageIngestion, st.Stage)
			assert.Equal(t, "doc1", st.DocumentID)
		})
	}
}

func TestProcessingAdapterVocabulary(t *testing.T) {
	tests := []struct {
		token string
		want  types.Status
	}{
		{"queued", types.StatusPending},
		{"chunking", types.StatusProcessing},
		{"chunked", types.StatusCompleted},
		{"failed", types.StatusFailed},
	}

	for _, tt := range tests {
		raw := json.RawMessage(`{"id":"doc1","state":"` + tt.token + `","duration_seconds":4.5}`)
		st, err := mapServiceResponse(types.StageProcessing, "doc1", raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, st.Status, "token %s", tt.token)
		assert.Equal(t, 4.5, st.Metadata.DurationSeconds)
	}
}

func TestEmbeddingAdapterUsesExecutionTimeAsDuration(t *testing.T) {
	raw := json.RawMessage(`{"doc_id":"doc1","embedding_status":"embedded","execution_time":3.25}`)

	st, err := mapServiceResponse(types.StageEmbedding, "doc1", raw)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, st.Status)
	assert.Equal(t, 3.25, st.Metadata.DurationSeconds)
}

func TestStorageAdapterVocabulary(t *testing.T) {
	tests := []struct {
		token string
		want  types.Status
	}{
		{"received", types.StatusPending},
		{"indexing", types.StatusProcessing},
		{"indexed", types.StatusCompleted},
		{"failed", types.StatusFailed},
	}

	for _, tt := range tests {
		raw := json.RawMessage(`{"documentId":"doc1","phase":"` + tt.token + `","elapsedSeconds":1.5}`)
		st, err := mapServiceResponse(types.StageVectorStorage, "doc1", raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, st.Status, "token %s", tt.token)
	}
}

func TestAdapterRejectsUnknownVocabulary(t *testing.T) {
	raw := json.RawMessage(`{"document_id":"doc1","validation_status":"exploded"}`)
	_, err := mapServiceResponse(types.StageIngestion, "doc1", raw)
	assert.Error(t, err)
}

func TestAdapterRejectsMalformedJSON(t *testing.T) {
	raw := json.RawMessage(`{"state":`)
	_, err := mapServiceResponse(types.StageProcessing, "doc1", raw)
	assert.Error(t, err)
}
