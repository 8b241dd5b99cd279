package config

import (
	"os"

	"docgate/types"
)

// Default stage provider base URLs (Docker internal DNS names).
var defaultEndpoints = map[types.Stage]string{
	types.StageIngestion:     "http://ingestion-service:8080",
	types.StageProcessing:    "http://processing-service:8080",
	types.StageEmbedding:     "http://embedding-service:8080",
	types.StageVectorStorage: "http://vector-storage-service:8080",
}

// Environment variable overrides per stage.
var endpointEnvVars = map[types.Stage]string{
	types.StageIngestion:     "INGESTION_SERVICE_URL",
	types.StageProcessing:    "PROCESSING_SERVICE_URL",
	types.StageEmbedding:     "EMBEDDING_SERVICE_URL",
	types.StageVectorStorage: "VECTOR_STORAGE_SERVICE_URL",
}

// StageEndpoint resolves the base URL for a stage provider.
// The environment variable wins; otherwise the Docker-internal default applies.
func StageEndpoint(stage types.Stage) string {
	if url := os.Getenv(endpointEnvVars[stage]); url != "" {
		return url
	}
	return defaultEndpoints[stage]
}

// StageEndpoints resolves base URLs for all four stages in pipeline order.
func StageEndpoints() map[types.Stage]string {
	endpoints := make(map[types.Stage]string, len(types.StageOrder))
	for _, stage := range types.StageOrder {
		endpoints[stage] = StageEndpoint(stage)
	}
	return endpoints
}

// EnvOrDefault returns the value of an environment variable or a default value.
func EnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
