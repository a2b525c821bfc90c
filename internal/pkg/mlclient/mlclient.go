// Package mlclient talks to the external recommendation service. The
// service is best-effort: every failure mode collapses to a nil result so
// callers can fall back without inspecting errors.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/unknowntpo/threads-nextjs-sub000/config"
)

// Recommendation is one ranked post from the model.
type Recommendation struct {
	PostID string  `json:"post_id"`
	Score  float64 `json:"score"`
}

// Result is a ranked recommendation list with its model version.
type Result struct {
	Items        []Recommendation `json:"recommendations"`
	ModelVersion string           `json:"model_version"`
}

type Client struct {
	baseURL       string
	httpClient    *http.Client
	healthTimeout time.Duration
}

func New(cfg *config.MLConfig) *Client {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	healthTimeout := time.Duration(cfg.HealthTimeoutMs) * time.Millisecond
	if healthTimeout <= 0 {
		healthTimeout = 2 * time.Second
	}
	return &Client{
		baseURL:       cfg.BaseURL,
		httpClient:    &http.Client{Timeout: timeout},
		healthTimeout: healthTimeout,
	}
}

// Recommendations asks the model for a ranked list for userID, skipping
// excludeIDs. It returns nil on timeout, transport error, non-2xx status,
// malformed body, or an empty list; the caller is expected to fall back
// to random ordering.
func (c *Client) Recommendations(ctx context.Context, userID string, limit int, excludeIDs []string) *Result {
	if c.baseURL == "" {
		return nil
	}

	if excludeIDs == nil {
		excludeIDs = []string{}
	}
	payload, err := json.Marshal(map[string]interface{}{
		"user_id":          userID,
		"limit":            limit,
		"exclude_post_ids": excludeIDs,
	})
	if err != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/recommendations/generate", bytes.NewReader(payload))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("mlclient: recommendation request failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("mlclient: recommendation request returned %d", resp.StatusCode)
		return nil
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("mlclient: malformed recommendation response: %v", err)
		return nil
	}

	// Drop entries without a post ID rather than trusting the model
	// blindly; an all-invalid response counts as a failure.
	valid := result.Items[:0]
	for _, item := range result.Items {
		if item.PostID != "" {
			valid = append(valid, item)
		}
	}
	result.Items = valid

	if len(result.Items) == 0 {
		return nil
	}
	return &result
}

// Healthy probes the service's health endpoint with a short budget.
func (c *Client) Healthy(ctx context.Context) bool {
	if c.baseURL == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
