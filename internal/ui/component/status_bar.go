package component

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/leighmacdonald/roster-tui/internal/license"
	"github.com/leighmacdonald/roster-tui/internal/ui/command"
	"github.com/leighmacdonald/roster-tui/internal/ui/input"
	"github.com/leighmacdonald/roster-tui/internal/ui/model"
	"github.com/leighmacdonald/roster-tui/internal/ui/styles"
	"github.com/muesli/reflow/truncate"
)

const hostnameMaxWidth = 40

type StatusBarModel struct {
	viewState   model.ViewState
	statusMsg   string
	statusError bool
	version     string
	info        license.Info
	loggedIn    bool
	server      command.ServerStatusMsg
	now         time.Time
}

func NewStatusBarModel(version string) *StatusBarModel {
	return &StatusBarModel{version: version}
}

func (m *StatusBarModel) Init() tea.Cmd {
	return nil
}

func (m *StatusBarModel) Update(msg tea.Msg) (*StatusBarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case command.StatusMsg:
		m.statusMsg = msg.Message
		m.statusError = msg.Err

		return m, command.ClearErrorAfter(command.ClearMessageTimeout)
	case command.ClearStatusMessageMsg:
		m.statusError = false
		m.statusMsg = ""
	case command.LoginSucceededMsg:
		m.info = msg.Info
		m.loggedIn = true
	case command.LogoutMsg:
		m.info = license.Info{}
		m.loggedIn = false
		m.server = command.ServerStatusMsg{}
	case command.ServerStatusMsg:
		m.server = msg
		m.now = msg.FetchedAt
	case command.ClockMsg:
		m.now = time.Time(msg)
	case model.ViewState:
		m.viewState = msg
	}

	return m, nil
}

func (m *StatusBarModel) View() string {
	args := []string{
		styles.StatusVersion.Render(m.version),
		styles.StatusHelp.Render(fmt.Sprintf(" %s %s ", input.Default.Help.Help().Key, input.Default.Help.Help().Desc)),
		m.license(),
	}

	if m.server.Hostname != "" {
		args = append(args,
			styles.StatusHostname.Render(truncate.StringWithTail(m.server.Hostname, hostnameMaxWidth, "…")),
			styles.StatusCounts.Render(fmt.Sprintf("%s %d/%d", styles.IconPlayers, m.server.Clients, m.server.MaxClients)),
			styles.StatusFetched.Render("fetched "+humanize.RelTime(m.server.FetchedAt, m.now, "ago", "from now")))
	}

	args = append(args, m.status())

	return lipgloss.NewStyle().Width(m.viewState.Width).Render(lipgloss.JoinHorizontal(lipgloss.Top, args...))
}

func (m *StatusBarModel) license() string {
	if !m.loggedIn {
		return styles.StatusLicense.Render("Not logged in")
	}

	label := fmt.Sprintf("%s %s (%d/%d devices)", license.Mask(m.info.Key), m.info.Type,
		m.info.TotalDevices, m.info.MaxDevices)
	if m.info.ExpiresAt != nil {
		label += " expires " + humanize.Time(*m.info.ExpiresAt)
	}

	return styles.StatusLicense.Render(label)
}

func (m *StatusBarModel) status() string {
	if m.statusMsg == "" {
		return ""
	}

	if m.statusError {
		return styles.StatusError.Render(m.statusMsg)
	}

	return styles.StatusMessage.Render(m.statusMsg)
}
