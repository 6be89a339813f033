package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/meltforce/repvelocity/internal/ingest"
)

// serverStats mirrors the fields of storage.DataStats this CLI needs, without
// importing the storage package (which would pull in pgx and other
// server-side dependencies).
type serverStats struct {
	TotalSessions int64 `json:"total_sessions"`
	TotalReps     int64 `json:"total_reps"`
}

// Client sends capture payloads to the RepVelocity server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the RepVelocity server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// FetchStats retrieves session and rep counts from the server. Used as a
// connectivity check before uploading.
func (c *Client) FetchStats() (sessions, reps int64, err error) {
	resp, err := c.httpClient.Get(c.serverURL + "/api/v1/stats")
	if err != nil {
		return 0, 0, fmt.Errorf("fetching stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, 0, fmt.Errorf("stats request failed (status %d): %s", resp.StatusCode, body)
	}

	var stats serverStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return 0, 0, fmt.Errorf("decoding stats: %w", err)
	}
	return stats.TotalSessions, stats.TotalReps, nil
}

// SendCapture POSTs a raw capture payload to the server's ingest endpoint and
// returns the server's ingest result. Retries up to 3 times with exponential
// backoff on failure.
func (c *Client) SendCapture(data []byte) (*ingest.Result, error) {
	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, c.serverURL+"/api/v1/ingest/", bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			var result ingest.Result
			if err := json.Unmarshal(body, &result); err != nil {
				return nil, fmt.Errorf("decoding ingest result: %w", err)
			}
			return &result, nil
		}

		lastErr = fmt.Errorf("ingest failed (status %d): %s", resp.StatusCode, body)
		// Client errors will not succeed on retry.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			break
		}
	}

	return nil, fmt.Errorf("after retries: %w", lastErr)
}
