package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// FetchStatus performs the read-only status query for a document and returns
// the provider's raw JSON body. Response shapes differ per provider, so
// decoding is left to the caller's stage adapter.
//
// Non-2xx responses become a *StatusError; transport failures are returned
// wrapped as-is so the caller can classify them as network errors.
func (c *StageClient) FetchStatus(ctx context.Context, documentID string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/status/%s", c.baseURL, documentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return json.RawMessage(body), nil
}
