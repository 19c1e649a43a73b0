package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Faces matching at or above this confidence count as a positive match.
const matchThreshold = 0.8

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the face-matching service. In mock mode it answers locally,
// which keeps development and tests off the network.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	mock       bool
	maxRetries int
}

// Config defines settings for the vision client.
type Config struct {
	BaseURL    string
	Mock       bool
	MaxRetries int
}

// New creates a vision client.
func New(httpClient HTTPClient, cfg Config) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		mock:       cfg.Mock,
		maxRetries: maxRetries,
	}
}

// MatchFace compares a captured image against the reference image and returns
// the service's judgment. Images are passed as base64 payloads.
func (c *Client) MatchFace(ctx context.Context, captured, reference string) (bool, float64, error) {
	if captured == "" {
		return false, 0, fmt.Errorf("captured image is required")
	}
	if c.mock {
		// Deterministic mock: a non-empty reference matches.
		if reference == "" {
			return false, 0, nil
		}
		return true, 0.95, nil
	}

	payload, err := json.Marshal(matchRequest{Captured: captured, Reference: reference})
	if err != nil {
		return false, 0, fmt.Errorf("encode match request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/faces:match", bytes.NewReader(payload))
		if err != nil {
			return false, 0, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request: %w", err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("read response: %w", readErr)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("vision status %d: %s", resp.StatusCode, string(body))
			continue
		}

		var decoded matchResponse
		if err := json.Unmarshal(body, &decoded); err != nil {
			return false, 0, fmt.Errorf("decode response: %w", err)
		}
		return decoded.Confidence >= matchThreshold, decoded.Confidence, nil
	}
	return false, 0, fmt.Errorf("face match failed after %d attempts: %w", c.maxRetries, lastErr)
}

type matchRequest struct {
	Captured  string `json:"captured"`
	Reference string `json:"reference"`
}

type matchResponse struct {
	Confidence float64 `json:"confidence"`
}
