package pages

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leighmacdonald/roster-tui/internal/ui/command"
	"github.com/leighmacdonald/roster-tui/internal/ui/input"
	"github.com/leighmacdonald/roster-tui/internal/ui/model"
	"github.com/leighmacdonald/roster-tui/internal/ui/styles"
)

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func NewHelp(build BuildInfo, configPath string, dbPath string, deviceID string) *Help {
	return &Help{
		helpView:   help.New(),
		build:      build,
		configPath: configPath,
		dbPath:     dbPath,
		deviceID:   deviceID,
	}
}

type Help struct {
	helpView   help.Model
	viewState  model.ViewState
	build      BuildInfo
	configPath string
	dbPath     string
	deviceID   string
}

func (m *Help) Init() tea.Cmd {
	return nil
}

func (m *Help) Update(msg tea.Msg) (*Help, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.viewState.Page == model.PageHelp && key.Matches(msg, input.Default.Back) {
			return m, command.SetFocus(m.viewState.PreviousPage, m.viewState.KeyZone)
		}
	case model.ViewState:
		m.viewState = msg
	}

	return m, nil
}

func (m *Help) View() string {
	left := m.helpView.FullHelpView([][]key.Binding{
		{
			input.Default.Quit,
			input.Default.ForceQuit,
			input.Default.Help,
			input.Default.Back,
			input.Default.Logout,
		},
	})

	middle := m.helpView.FullHelpView([][]key.Binding{
		{
			input.Default.NextTag,
			input.Default.PrevTag,
			input.Default.Up,
			input.Default.Down,
			input.Default.Search,
			input.Default.Retry,
			input.Default.Dismiss,
		},
	})

	right := m.helpView.FullHelpView([][]key.Binding{
		{
			input.Default.Accept,
			input.Default.UseSaved,
			input.Default.Reveal,
			input.Default.ClearInput,
		},
	})

	helpContent := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.HelpBox.Render(left), styles.HelpBox.Render(middle), styles.HelpBox.Render(right))

	commit := m.build.Commit
	if len(commit) > 8 {
		commit = commit[0:8]
	}

	content := lipgloss.JoinVertical(lipgloss.Center, helpContent,
		styles.DetailRow("Version", m.build.Version),
		styles.DetailRow("Commit", commit),
		styles.DetailRow("Date", m.build.Date),
		styles.DetailRow("Config Path", m.configPath),
		styles.DetailRow("Database", m.dbPath),
		styles.DetailRow("Device ID", m.deviceID),
	)

	return lipgloss.Place(m.viewState.Width, m.viewState.Upper,
		lipgloss.Center, lipgloss.Center, content)
}
