package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultProbeTimeout bounds a single health or status request.
const DefaultProbeTimeout = 5 * time.Second

// getJSON issues a GET to baseURL+path and decodes a JSON body into out.
// The status code is returned even when decoding fails.
func getJSON(ctx context.Context, client *http.Client, baseURL, path string, out any) (int, error) {
	if client == nil {
		client = &http.Client{Timeout: DefaultProbeTimeout}
	}

	url := strings.TrimRight(baseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to reach vault at %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return resp.StatusCode, nil
}
