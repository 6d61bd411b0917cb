package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangadesk/pkg/app/styles"
)

// RenderTabs renders labels as a tab bar with the label at active highlighted.
func RenderTabs(labels []string, active int) string {
	rendered := make([]string, 0, len(labels))
	for i, label := range labels {
		if i == active {
			rendered = append(rendered, styles.ActiveTabStyle.Render(label))
		} else {
			rendered = append(rendered, styles.InactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
