// internal/tui/styles.go
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/hedlab/internal/workbench"
)

var (
	titleStyle       = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1).Bold(true)
	tabStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	activeTabStyle   = lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("40")).Padding(0, 1).Bold(true)
	labelStyle       = lipgloss.NewStyle().Bold(true)
	focusLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	sectionStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	annotationStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("40")).Padding(0, 1)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	confirmStyle     = lipgloss.NewStyle().Background(lipgloss.Color("214")).Foreground(lipgloss.Color("0")).Padding(0, 1).Bold(true)
	dirtyBadgeStyle  = lipgloss.NewStyle().Background(lipgloss.Color("214")).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	badgeStyle       = lipgloss.NewStyle().Background(lipgloss.Color("255")).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	alertBaseStyle   = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	alertLevelColors = map[workbench.Level]lipgloss.Color{
		workbench.LevelInfo:    lipgloss.Color("39"),
		workbench.LevelSuccess: lipgloss.Color("40"),
		workbench.LevelWarning: lipgloss.Color("214"),
		workbench.LevelDanger:  lipgloss.Color("9"),
	}
)

// renderAlert draws the alert bar across width columns.
func renderAlert(alert workbench.Alert, width int) string {
	style := alertBaseStyle.
		Background(alertLevelColors[alert.Level]).
		Foreground(lipgloss.Color("0"))
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.ToUpper(alert.Level.String()) + "  " + alert.Message + "  (esc to dismiss)")
}

// renderTabs draws the tab strip with active highlighted.
func renderTabs(active tab) string {
	parts := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		label := tabKeys[i] + " " + name
		if tab(i) == active {
			parts = append(parts, activeTabStyle.Render(label))
			continue
		}
		parts = append(parts, tabStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
