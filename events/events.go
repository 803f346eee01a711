package events

import "time"

// LabResultUpdated is published after a lab snapshot is saved. Consumers use
// it to refresh the user's article recommendations without the mobile app
// having to trigger a second request.
type LabResultUpdated struct {
	UserID     string    `json:"user_id"`
	LabID      string    `json:"lab_id"`
	RiskLevel  string    `json:"risk_level"`
	OccurredAt time.Time `json:"occurred_at"`
}
