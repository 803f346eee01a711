package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"healthpulse/client"
)

// pollStatus fetches the current run status.
func pollStatus(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		status, err := c.Status(ctx)
		return StatusUpdateMsg{Status: status, Err: err}
	}
}

// triggerRefresh starts a personalization run for the user.
func triggerRefresh(c *client.Client, userID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return RefreshStartedMsg{Err: c.RefreshArticles(ctx, userID)}
	}
}

// fetchRecommendations loads the user's recommendation set.
func fetchRecommendations(c *client.Client, userID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		resp, err := c.Recommendations(ctx, userID)
		return RecommendationsMsg{Response: resp, Err: err}
	}
}

// tickCmd ticks every 500ms to drive polling.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
