package client

import (
	"fmt"
	"net/http"

	"docgate/config"
	"docgate/types"
)

// StageClient queries one stage status provider over HTTP.
type StageClient struct {
	stage      types.Stage
	baseURL    string
	httpClient *http.Client
}

// NewStageClient creates a client for one stage provider. An empty baseURL
// falls back to the configured endpoint for the stage.
func NewStageClient(stage types.Stage, baseURL string) *StageClient {
	if baseURL == "" {
		baseURL = config.StageEndpoint(stage)
	}
	return &StageClient{
		stage:      stage,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: config.StageRequestTimeout},
	}
}

// Stage returns the pipeline stage this client queries.
func (c *StageClient) Stage() types.Stage {
	return c.stage
}

// StatusError is a non-success HTTP response from a stage provider. The
// aggregator uses the status code to tell "no record yet" from real failures.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Body)
}

// NotFound reports whether the provider answered 404 for the document.
func (e *StatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}
