package ui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leighmacdonald/roster-tui/internal/config"
	"github.com/leighmacdonald/roster-tui/internal/ui/command"
	"github.com/leighmacdonald/roster-tui/internal/ui/component"
	"github.com/leighmacdonald/roster-tui/internal/ui/input"
	"github.com/leighmacdonald/roster-tui/internal/ui/model"
	"github.com/leighmacdonald/roster-tui/internal/ui/pages"
	"github.com/leighmacdonald/roster-tui/internal/ui/styles"
	zone "github.com/lrstanley/bubblezone"
)

const footerHeight = 1

// rootModel is the top level model for the ui side of the app.
type rootModel struct {
	ctx         context.Context //nolint:containedctx
	deps        Deps
	viewState   model.ViewState
	loginPage   *pages.Login
	rosterPage  *pages.Roster
	helpPage    *pages.Help
	statusModel *component.StatusBarModel
}

func newRootModel(ctx context.Context, conf config.Config, deps Deps, build pages.BuildInfo, configPath string, dbPath string) rootModel {
	return rootModel{
		ctx:         ctx,
		deps:        deps,
		viewState:   model.ViewState{Page: model.PageLogin, PreviousPage: model.PageLogin, KeyZone: model.KZloginInput},
		loginPage:   pages.NewLogin(ctx, deps.Session),
		rosterPage:  pages.NewRoster(ctx, conf, deps.Session, deps.Fetcher, deps.Resolver),
		helpPage:    pages.NewHelp(build, configPath, dbPath, deps.Session.DeviceID()),
		statusModel: component.NewStatusBarModel(build.Version),
	}
}

func (m rootModel) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("roster-tui"),
		textinput.Blink,
		m.loginPage.Init(),
		m.rosterPage.Init(),
		m.helpPage.Init(),
		m.statusModel.Init(),
		command.Restore(m.ctx, m.deps.Session),
		command.Clock(),
	)
}

func (m rootModel) Update(inMsg tea.Msg) (tea.Model, tea.Cmd) {
	logMsg(inMsg)

	switch msg := inMsg.(type) {
	case tea.WindowSizeMsg:
		state := m.viewState
		state.Height = msg.Height
		state.Width = msg.Width
		state.Upper = max(0, msg.Height-footerHeight)
		state.Lower = footerHeight

		return m, command.SetViewState(state)
	case model.ViewState:
		m.viewState = msg
	case model.Focus:
		state := m.viewState
		state.Page = msg.Page
		state.KeyZone = msg.KeyZone

		return m, command.SetViewState(state)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, input.Default.ForceQuit):
			return m, tea.Quit
		case m.viewState.KeyZone.Typing():
			// Printable keys belong to the focused input.
		case key.Matches(msg, input.Default.Quit):
			return m, tea.Quit
		case key.Matches(msg, input.Default.Help):
			state := m.viewState
			if state.Page == model.PageHelp {
				state.Page = state.PreviousPage
			} else {
				state.PreviousPage = state.Page
				state.Page = model.PageHelp
			}

			return m, command.SetViewState(state)
		}
	case command.LoginSucceededMsg:
		state := m.viewState
		state.Page = model.PageRoster
		state.PreviousPage = model.PageRoster
		state.KeyZone = model.KZplayerTable

		return m.propagate(inMsg, command.SetViewState(state))
	case command.ClockMsg:
		return m.propagate(inMsg, command.Clock())
	}

	return m.propagate(inMsg)
}

func (m rootModel) View() string {
	if !m.isInitialized() {
		return ""
	}

	ftr := styles.FooterContainerStyle.Width(m.viewState.Width).Render(m.statusModel.View())

	var content string
	switch m.viewState.Page {
	case model.PageHelp:
		content = m.helpPage.View()
	case model.PageRoster:
		content = m.rosterPage.View()
	case model.PageLogin:
		content = m.loginPage.View()
	}

	ctr := styles.ContentContainerStyle.
		Width(m.viewState.Width).
		Height(m.viewState.Upper).
		MaxHeight(m.viewState.Upper).
		Render(content)

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, ctr, ftr))
}

func (m rootModel) isInitialized() bool {
	return m.viewState.Height != 0 && m.viewState.Width != 0
}

func (m rootModel) propagate(msg tea.Msg, extra ...tea.Cmd) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 4, 4+len(extra))

	m.loginPage, cmds[0] = m.loginPage.Update(msg)
	m.rosterPage, cmds[1] = m.rosterPage.Update(msg)
	m.helpPage, cmds[2] = m.helpPage.Update(msg)
	m.statusModel, cmds[3] = m.statusModel.Update(msg)

	return m, tea.Batch(append(cmds, extra...)...)
}

// logMsg is useful for debugging events. Tail the log file ~/.config/roster-tui/roster-tui.log
func logMsg(inMsg tea.Msg) {
	// Filter out very noisy stuff
	switch msg := inMsg.(type) {
	case spinner.TickMsg, command.ClockMsg, tea.MouseMsg, tea.KeyMsg:
		break
	case command.LoginSucceededMsg, command.RestoreFailedMsg, command.LogoutMsg:
		// These carry license keys.
		slog.Debug("tea.Msg", slog.String("type", fmt.Sprintf("%T", msg)))
	case command.FetchSucceededMsg:
		slog.Debug("tea.Msg", slog.String("type", "fetch_succeeded"),
			slog.Uint64("token", uint64(msg.Token)), slog.Int("players", len(msg.Status.Players)))
	default:
		slog.Debug("tea.Msg", slog.Any("msg", inMsg))
	}
}
