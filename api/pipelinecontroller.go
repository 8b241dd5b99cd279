package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docgate/status"
)

// RegisterPipelineRoutes registers the client-facing pipeline summary endpoint.
func RegisterPipelineRoutes(r *gin.Engine, aggregator *status.Aggregator) {
	r.GET("/api/documents/:id/pipeline", func(c *gin.Context) {
		documentID := c.Param("id")

		summary, err := aggregator.GetPipelineSummary(c.Request.Context(), documentID)
		if errors.Is(err, status.ErrAllStagesUnavailable) {
			// The summary still describes what is known; signal degradation.
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   err.Error(),
				"summary": summary,
			})
			return
		}

		c.JSON(http.StatusOK, summary)
	})
}
