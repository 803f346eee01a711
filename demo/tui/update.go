package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case TickMsg:
		return m, tea.Batch(pollStatus(m.Client), tickCmd())
	case StatusUpdateMsg:
		return m.handleStatusUpdate(msg)
	case RefreshStartedMsg:
		if msg.Err != nil {
			m.Err = msg.Err
		}
		return m, nil
	case RecommendationsMsg:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		m.Recommendations = msg.Response
		return m, nil
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r", "R":
		switch m.state() {
		case "idle", "complete", "error":
			m.Err = nil
			return m, triggerRefresh(m.Client, m.UserID)
		}
	}
	return m, nil
}

func (m Model) handleStatusUpdate(msg StatusUpdateMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Connected = false
		return m, nil
	}
	m.Connected = true

	wasComplete := m.Status != nil && m.Status.State == "complete"
	m.Status = msg.Status

	// fetch recommendations once when a run finishes
	if msg.Status.State == "complete" && !wasComplete {
		return m, fetchRecommendations(m.Client, m.UserID)
	}
	return m, nil
}
