package model

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/leighmacdonald/roster-tui/internal/ui/styles"
)

func Container(title string, width int, height int, content string, active bool) string {
	if height <= 0 || width <= 0 {
		return ""
	}

	var base lipgloss.Style
	if active {
		base = styles.ContainerStyleActive
	} else {
		base = styles.ContainerStyle
	}

	// Border takes up 2 columns and rows.
	return base.
		Border(styles.TitleBorder(styles.ContainerBorder, width, title)).
		Width(max(0, width-2)).
		Height(max(0, height-2)).
		Render(content)
}
