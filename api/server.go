package api

import (
	"github.com/gin-gonic/gin"

	"docgate/records"
	"docgate/status"
)

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(aggregator *status.Aggregator, store *records.Store) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Register resource routers
	RegisterPipelineRoutes(r, aggregator)
	RegisterValidationRoutes(r, store)
	RegisterIngestionProviderRoutes(r, store)
	RegisterHealthRoutes(r)
	return r
}
