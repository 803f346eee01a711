package client

import (
	"context"
	"net/http"
	"time"

	"healthpulse/types"
)

// Status mirrors the server's run status payload.
type Status struct {
	State            string           `json:"state"`
	Logs             []StatusLogEntry `json:"logs"`
	FetchedCount     int              `json:"fetched_count"`
	RecommendedCount int              `json:"recommended_count"`
	LastResult       *types.RunResult `json:"last_result,omitempty"`
	Error            string           `json:"error,omitempty"`
}

// StatusLogEntry is one progress line from the current or last run.
type StatusLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// RecommendationsResponse is the server's recommendation list payload.
type RecommendationsResponse struct {
	UserID          string                        `json:"user_id"`
	Count           int                           `json:"count"`
	Recommendations []types.ArticleRecommendation `json:"recommendations"`
}

// RefreshArticles triggers a personalization run for the user. The run is
// asynchronous; poll Status to observe progress.
func (c *Client) RefreshArticles(ctx context.Context, userID string) error {
	return c.call(ctx, http.MethodPost, withUser("/api/articles/refresh", userID), nil, nil)
}

// Status fetches the current run state.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var st Status
	if err := c.call(ctx, http.MethodGet, "/api/articles/status", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Recommendations fetches the user's current recommendation set.
func (c *Client) Recommendations(ctx context.Context, userID string) (*RecommendationsResponse, error) {
	var resp RecommendationsResponse
	err := c.call(ctx, http.MethodGet, withUser("/api/articles/recommendations", userID), nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
