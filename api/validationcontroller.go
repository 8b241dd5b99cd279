package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"docgate/types"
)

// RecordGetter reads stored classification results. *records.Store satisfies it.
type RecordGetter interface {
	GetResult(ctx context.Context, documentID string) (*types.ClassificationResult, error)
}

// RegisterValidationRoutes registers the validation record lookup endpoint.
func RegisterValidationRoutes(r *gin.Engine, store RecordGetter) {
	r.GET("/api/documents/:id/validation", func(c *gin.Context) {
		documentID := c.Param("id")

		result, err := store.GetResult(c.Request.Context(), documentID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load record: " + err.Error()})
			return
		}
		if result == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no validation record for document"})
			return
		}

		c.JSON(http.StatusOK, result)
	})
}
