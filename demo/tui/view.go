package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🩺 HealthPulse Personalization Demo"))
	b.WriteString("\n\n")

	b.WriteString(m.stateText())
	b.WriteString("\n\n")

	if m.Status != nil && m.Status.FetchedCount > 0 {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("📊 Articles fetched: %d | Recommended: %d",
			m.Status.FetchedCount, m.Status.RecommendedCount)))
		b.WriteString("\n\n")
	}

	if m.Status != nil && len(m.Status.Logs) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		logs := m.Status.Logs
		if len(logs) > 10 {
			logs = logs[len(logs)-10:]
		}
		for _, entry := range logs {
			b.WriteString(InfoStyle.Render("   " + entry.Message))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.state() == "complete" && m.Recommendations != nil {
		b.WriteString(BoxStyle.Render(m.formatRecommendations()))
		b.WriteString("\n\n")
	}

	if m.Err != nil {
		b.WriteString(ErrorStyle.Render("Error: " + m.Err.Error()))
		b.WriteString("\n\n")
	}

	switch m.state() {
	case "idle", "complete", "error":
		b.WriteString(InfoStyle.Render("Press 'r' to refresh recommendations | Press 'q' or Ctrl+C to quit"))
	default:
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
	}

	return b.String()
}

func (m Model) stateText() string {
	if !m.Connected {
		return ErrorStyle.Render("❌ Not connected to server")
	}

	switch m.state() {
	case "idle":
		return HighlightStyle.Render("👋 Ready!") + "\n\n" +
			InfoStyle.Render("Press 'r' to refresh recommendations for "+m.UserID)
	case "analyzing":
		return StatusStyle.Render("🔬 Analyzing lab results...")
	case "fetching":
		return StatusStyle.Render("⏳ Fetching health articles...")
	case "classifying":
		return StatusStyle.Render("🏷️  Classifying articles...")
	case "ranking":
		return StatusStyle.Render("📈 Ranking by personal relevance...")
	case "translating":
		return StatusStyle.Render("🌐 Translating articles...")
	case "persisting":
		return StatusStyle.Render("💾 Storing recommendations...")
	case "complete":
		return HighlightStyle.Render("✅ COMPLETE")
	case "error":
		errMsg := "unknown error"
		if m.Status != nil && m.Status.Error != "" {
			errMsg = m.Status.Error
		}
		return ErrorStyle.Render("❌ Error: " + errMsg)
	default:
		return ""
	}
}

func (m Model) formatRecommendations() string {
	var b strings.Builder
	b.WriteString(HighlightStyle.Render(fmt.Sprintf("Recommendations for %s", m.UserID)))
	b.WriteString("\n\n")

	if m.Recommendations.Count == 0 {
		b.WriteString(InfoStyle.Render("No recommendations yet."))
		return b.String()
	}

	for i, rec := range m.Recommendations.Recommendations {
		title := rec.Article.Title
		if title == "" {
			title = rec.Article.SourceURL
		}
		b.WriteString(fmt.Sprintf("%2d. %s\n", i+1, StatusStyle.Render(title)))
		b.WriteString(InfoStyle.Render(fmt.Sprintf("    skor %.2f · %s", rec.PriorityScore, rec.Reason)))
		b.WriteString("\n")
	}
	return b.String()
}
