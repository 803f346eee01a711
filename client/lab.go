package client

import (
	"context"
	"net/http"

	"healthpulse/types"
)

// LabResponse mirrors the server's lab payload.
type LabResponse struct {
	LabResult   *types.LabResult         `json:"lab_result"`
	Overall     types.RiskCategoryResult `json:"overall"`
	Diabetes    types.RiskCategoryResult `json:"diabetes"`
	Cholesterol types.RiskCategoryResult `json:"cholesterol"`
}

type manualLabRequest struct {
	UserID      string               `json:"user_id"`
	Measurement types.LabMeasurement `json:"measurement"`
}

// SubmitManualLab stores a typed-in measurement and returns the scored snapshot.
func (c *Client) SubmitManualLab(ctx context.Context, userID string, m types.LabMeasurement) (*LabResponse, error) {
	var resp LabResponse
	err := c.call(ctx, http.MethodPost, "/api/lab/manual",
		manualLabRequest{UserID: userID, Measurement: m}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// LatestLab fetches the user's most recent snapshot with derived summaries.
func (c *Client) LatestLab(ctx context.Context, userID string) (*LabResponse, error) {
	var resp LabResponse
	err := c.call(ctx, http.MethodGet, withUser("/api/lab/latest", userID), nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Priority fetches the content focus decision for the user.
func (c *Client) Priority(ctx context.Context, userID string) (*types.HealthPriority, error) {
	var pr types.HealthPriority
	err := c.call(ctx, http.MethodGet, withUser("/api/lab/priority", userID), nil, &pr)
	if err != nil {
		return nil, err
	}
	return &pr, nil
}
