package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"healthpulse/client"
)

// Model is a thin client over the server's status and recommendation
// endpoints; all pipeline state lives server-side and is polled.
type Model struct {
	Client *client.Client
	UserID string

	Status          *client.Status
	Recommendations *client.RecommendationsResponse
	Err             error
	Connected       bool
}

// NewModel creates the TUI model.
func NewModel(serverURL, userID string) Model {
	return Model{
		Client: client.New(serverURL),
		UserID: userID,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		pollStatus(m.Client),
		tickCmd(),
	)
}

func (m Model) state() string {
	if m.Status == nil {
		return "idle"
	}
	return m.Status.State
}
