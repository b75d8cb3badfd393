package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leighmacdonald/roster-tui/internal/ui/input"
	"github.com/leighmacdonald/roster-tui/internal/ui/styles"
)

// ErrorBanner renders a fetch failure along with the retry and dismiss hints. A dismissed banner stays
// hidden until Show is called again.
type ErrorBanner struct {
	message   string
	dismissed bool
}

func (b *ErrorBanner) Show(message string) {
	b.message = message
	b.dismissed = false
}

func (b *ErrorBanner) Dismiss() {
	b.dismissed = true
}

func (b *ErrorBanner) Visible() bool {
	return b.message != "" && !b.dismissed
}

func (b *ErrorBanner) Render(width int) string {
	if !b.Visible() {
		return ""
	}

	hint := input.Default.Retry.Help().Key + " " + input.Default.Retry.Help().Desc + "  " +
		input.Default.Dismiss.Help().Key + " " + input.Default.Dismiss.Help().Desc

	msg := styles.Banner.Render(styles.IconError + " Failed to load players: " + b.message)
	hints := styles.BannerHint.Render(hint)
	fill := max(0, width-lipgloss.Width(msg)-lipgloss.Width(hints))

	spacer := lipgloss.NewStyle().Background(styles.Red).Render(strings.Repeat(" ", fill))

	return lipgloss.JoinHorizontal(lipgloss.Top, msg, spacer, hints)
}
