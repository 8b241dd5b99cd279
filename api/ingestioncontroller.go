package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docgate/types"
)

// IngestionStatusResponse is the ingestion provider's wire shape. This
// service is itself the ingestion stage provider: the aggregator's ingestion
// adapter consumes exactly this response.
type IngestionStatusResponse struct {
	DocumentID       string    `json:"document_id"`
	ValidationStatus string    `json:"validation_status"`
	ValidatedAt      time.Time `json:"validated_at"`
	Details          string    `json:"details,omitempty"`
}

// RegisterIngestionProviderRoutes exposes this service as the ingestion stage
// status provider.
func RegisterIngestionProviderRoutes(r *gin.Engine, store RecordGetter) {
	r.GET("/status/:id", func(c *gin.Context) {
		documentID := c.Param("id")

		result, err := store.GetResult(c.Request.Context(), documentID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load record: " + err.Error()})
			return
		}
		if result == nil {
			// No record yet: the aggregator maps 404 to pending/not_found.
			c.JSON(http.StatusNotFound, gin.H{"error": "no record for document"})
			return
		}

		c.JSON(http.StatusOK, toIngestionResponse(result))
	})
}

func toIngestionResponse(result *types.ClassificationResult) IngestionStatusResponse {
	resp := IngestionStatusResponse{
		DocumentID: result.DocumentID,
		Details:    result.Reason,
	}

	// Records written by the validator always carry the timestamp matching
	// their status, but a hand-edited or truncated record may not; a zero
	// timestamp beats a panic.
	switch result.Status {
	case types.ClassificationValidated:
		resp.ValidationStatus = "validated"
		resp.ValidatedAt = timestampOrZero(result.ValidatedAt)
	case types.ClassificationRejected:
		resp.ValidationStatus = "rejected"
		resp.ValidatedAt = timestampOrZero(result.RejectedAt)
	case types.ClassificationQuarantined:
		resp.ValidationStatus = "quarantined"
		resp.ValidatedAt = timestampOrZero(result.QuarantinedAt)
	}

	return resp
}

func timestampOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
