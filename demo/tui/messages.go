package tui

import (
	"time"

	"healthpulse/client"
)

// StatusUpdateMsg carries the latest polled run status.
type StatusUpdateMsg struct {
	Status *client.Status
	Err    error
}

// RefreshStartedMsg reports the outcome of triggering a refresh.
type RefreshStartedMsg struct {
	Err error
}

// RecommendationsMsg carries the fetched recommendation set.
type RecommendationsMsg struct {
	Response *client.RecommendationsResponse
	Err      error
}

// TickMsg drives the status polling loop.
type TickMsg struct {
	Time time.Time
}
