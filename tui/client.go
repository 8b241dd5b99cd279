package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docgate/types"
)

// TrackerClient is a thin HTTP client for the pipeline summary endpoint.
type TrackerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewTrackerClient creates a client against the docgate API.
func NewTrackerClient(baseURL string) *TrackerClient {
	return &TrackerClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SummaryResult is one poll outcome. Unavailable is set when the service
// reported that no stage provider could be reached.
type SummaryResult struct {
	Summary     types.PipelineSummary
	Unavailable bool
}

// GetSummary fetches the current pipeline summary for a document.
func (c *TrackerClient) GetSummary(documentID string) (*SummaryResult, error) {
	url := fmt.Sprintf("%s/api/documents/%s/pipeline", c.baseURL, documentID)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var summary types.PipelineSummary
		if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return &SummaryResult{Summary: summary}, nil

	case http.StatusServiceUnavailable:
		var degraded struct {
			Error   string                `json:"error"`
			Summary types.PipelineSummary `json:"summary"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&degraded); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return &SummaryResult{Summary: degraded.Summary, Unavailable: true}, nil

	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, string(body))
	}
}
