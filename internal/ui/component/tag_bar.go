package component

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leighmacdonald/roster-tui/internal/roster"
	"github.com/leighmacdonald/roster-tui/internal/ui/command"
	"github.com/leighmacdonald/roster-tui/internal/ui/model"
	"github.com/leighmacdonald/roster-tui/internal/ui/styles"
	zone "github.com/lrstanley/bubblezone"
)

// TagBarModel renders the ordered team tags with their member counts. Tags can be clicked to select them.
type TagBarModel struct {
	id        string
	tags      []roster.TagCount
	active    string
	viewState model.ViewState
}

func NewTagBarModel() *TagBarModel {
	return &TagBarModel{id: zone.NewPrefix()}
}

func (m *TagBarModel) Init() tea.Cmd {
	return nil
}

// SetTags replaces the displayed tags and the active tag key.
func (m *TagBarModel) SetTags(tags []roster.TagCount, active string) {
	m.tags = tags
	m.active = active
}

func (m *TagBarModel) Update(msg tea.Msg) (*TagBarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case model.ViewState:
		m.viewState = msg
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}

		for _, tag := range m.tags {
			if zone.Get(m.id + tag.Key).InBounds(msg) {
				return m, command.SelectTag(tag.Key)
			}
		}
	}

	return m, nil
}

func (m *TagBarModel) View() string {
	if len(m.tags) == 0 {
		return styles.TagUntagged.Render("No teams")
	}

	tags := make([]string, 0, len(m.tags))
	for _, tag := range m.tags {
		var style lipgloss.Style
		switch {
		case tag.Key == m.active:
			style = styles.TagActive
		case tag.Key == roster.Untagged:
			style = styles.TagUntagged
		default:
			style = styles.TagInactive
		}

		label := style.Render(fmt.Sprintf("%s %s", tag.Display, styles.TagCount.Render(fmt.Sprintf("(%d)", tag.Count))))
		tags = append(tags, zone.Mark(m.id+tag.Key, label))
	}

	return lipgloss.NewStyle().
		MaxWidth(max(0, m.viewState.Width)).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tags...))
}
