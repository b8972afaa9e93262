package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"rescuefeed/cmd/feedtui/internal/feedlist"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFAA00"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4444")).
			Bold(true)

	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAFF"))
)

// View renders the full-screen case browser.
func (m Model) View() tea.View {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Rescue Cases"))
	b.WriteString("\n")

	if offset := m.list.DragOffset(); offset > 0 {
		b.WriteString(m.viewDragIndicator(offset))
		b.WriteString("\n")
	}

	if err := m.list.Err(); err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("error: %v", err)))
		b.WriteString(dimStyle.Render("  (r to retry)"))
		b.WriteString("\n")
	}

	items := m.list.Items()
	if len(items) == 0 {
		if m.list.InFlight() {
			b.WriteString(dimStyle.Render("loading..."))
		} else {
			b.WriteString(dimStyle.Render("no cases"))
		}
		b.WriteString("\n")
	}

	for i, item := range items {
		b.WriteString(m.viewRow(i, item))
		b.WriteString("\n")
	}

	switch {
	case m.list.Refreshing():
		b.WriteString(dimStyle.Render("refreshing..."))
	case m.list.InFlight():
		b.WriteString(dimStyle.Render("loading more..."))
	case m.list.HasMore():
		b.WriteString(dimStyle.Render("scroll down for more"))
	case len(items) > 0:
		b.WriteString(dimStyle.Render("end of list"))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("j/k move · hold k at top then enter = pull to refresh · r refresh · q quit"))

	v := tea.NewView(b.String())
	v.AltScreen = true
	return v
}

func (m Model) viewRow(i int, item feedlist.Item) string {
	line := fmt.Sprintf("%-30s %s  %s", truncate(item.Title, 30), funding(item), item.Status)
	if i == m.cursor {
		return selectedStyle.Render("> " + line)
	}
	return "  " + line + "  " + stageStyle.Render(item.Stage)
}

func (m Model) viewDragIndicator(offset int) string {
	filled := offset * 10 / feedlist.MaxDragOffset
	bar := strings.Repeat("▾", filled) + strings.Repeat("·", 10-filled)
	if offset >= feedlist.ReleaseThreshold {
		return stageStyle.Render(bar + " release to refresh")
	}
	return dimStyle.Render(bar + " pull")
}

func funding(item feedlist.Item) string {
	if item.Goal <= 0 {
		return dimStyle.Render("no goal")
	}
	pct := item.Raised * 100 / item.Goal
	return fmt.Sprintf("%d/%d %s (%d%%)", item.Raised, item.Goal, item.Currency, pct)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
