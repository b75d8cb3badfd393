package pages

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leighmacdonald/roster-tui/internal/auth"
	"github.com/leighmacdonald/roster-tui/internal/config"
	"github.com/leighmacdonald/roster-tui/internal/fivem"
	"github.com/leighmacdonald/roster-tui/internal/geoip"
	"github.com/leighmacdonald/roster-tui/internal/roster"
	"github.com/leighmacdonald/roster-tui/internal/ui/command"
	"github.com/leighmacdonald/roster-tui/internal/ui/component"
	"github.com/leighmacdonald/roster-tui/internal/ui/input"
	"github.com/leighmacdonald/roster-tui/internal/ui/model"
	"github.com/leighmacdonald/roster-tui/internal/ui/styles"
)

// Roster is the main page showing the grouped player list of the monitored server.
type Roster struct {
	ctx         context.Context //nolint:containedctx
	session     *auth.Session
	fetcher     fivem.Fetcher
	resolver    geoip.Resolver
	view        *roster.View
	tagBar      *component.TagBarModel
	table       *component.PlayerTableModel
	detail      *component.DetailPanelModel
	banner      component.ErrorBanner
	searchInput textinput.Model
	spinner     spinner.Model
	viewState   model.ViewState
}

func NewRoster(ctx context.Context, conf config.Config, session *auth.Session, fetcher fivem.Fetcher, resolver geoip.Resolver) *Roster {
	searchInput := component.NewTextInputModel("", "name or id")
	searchInput.Prompt = styles.SearchPrompt.Render("/ ")

	view := roster.NewView(conf.Teams)

	return &Roster{
		ctx:         ctx,
		session:     session,
		fetcher:     fetcher,
		resolver:    resolver,
		view:        view,
		tagBar:      component.NewTagBarModel(),
		table:       component.NewPlayerTableModel(),
		detail:      component.NewDetailPanelModel(conf.Links, view.Mappings()),
		searchInput: searchInput,
		spinner:     component.NewSpinner(),
	}
}

func (m *Roster) Init() tea.Cmd {
	return nil
}

func (m *Roster) Update(msg tea.Msg) (*Roster, tea.Cmd) {
	switch msg := msg.(type) {
	case model.ViewState:
		m.viewState = msg
		if msg.KeyZone == model.KZsearchInput {
			m.searchInput.PromptStyle = styles.FocusedStyle
		} else {
			m.searchInput.PromptStyle = styles.NoStyle
			m.searchInput.Blur()
		}
	case config.Config:
		// The team table is fixed for the lifetime of the view, only the links follow the config.
		return m.propagate(msg, command.SetStatusMessage("Configuration reloaded", false))
	case command.LoginSucceededMsg:
		return m, m.beginFetch()
	case command.LogoutMsg:
		m.view.Reset()
		m.banner = component.ErrorBanner{}
		m.detail.Clear()
		m.sync()
	case command.FetchSucceededMsg:
		if !m.view.Complete(msg.Token, msg.Status.Players, msg.Status.FetchedAt) {
			return m, nil
		}

		m.banner = component.ErrorBanner{}
		m.sync()

		return m, command.SetServerStatus(msg.Status)
	case command.FetchFailedMsg:
		if !m.view.Fail(msg.Token, msg.Err) {
			return m, nil
		}

		m.banner.Show(m.view.Error())
	case command.SelectTagMsg:
		m.view.SetActive(msg.Key)
		m.sync()
	case command.SelectedPlayerMsg:
		return m.propagate(msg, command.LookupGeo(m.ctx, m.resolver, msg.Player.Endpoint))
	case spinner.TickMsg:
		if m.view.Status() != roster.StatusLoading {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case tea.KeyMsg:
		if m.viewState.Page != model.PageRoster {
			return m, nil
		}

		if m.viewState.KeyZone == model.KZsearchInput {
			return m.updateSearch(msg)
		}

		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	case tea.MouseMsg:
		if m.viewState.Page != model.PageRoster {
			return m, nil
		}
	}

	return m.propagate(msg)
}

func (m *Roster) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, input.Default.Search):
		m.searchInput.PromptStyle = styles.FocusedStyle

		return tea.Batch(m.searchInput.Focus(), command.SetFocus(model.PageRoster, model.KZsearchInput)), true
	case key.Matches(msg, input.Default.NextTag), key.Matches(msg, input.Default.Right):
		m.view.CycleActive(true)
		m.sync()

		return nil, true
	case key.Matches(msg, input.Default.PrevTag), key.Matches(msg, input.Default.Left):
		m.view.CycleActive(false)
		m.sync()

		return nil, true
	case key.Matches(msg, input.Default.Retry):
		if m.view.Status() != roster.StatusError {
			return nil, true
		}

		return m.beginFetch(), true
	case key.Matches(msg, input.Default.Dismiss):
		m.banner.Dismiss()

		return nil, true
	case key.Matches(msg, input.Default.Back):
		if m.view.Query() != "" {
			m.searchInput.Reset()
			m.view.SetSearch("")
			m.sync()
		}

		return nil, true
	case key.Matches(msg, input.Default.Logout):
		return command.Logout(m.ctx, m.session), true
	}

	return nil, false
}

func (m *Roster) updateSearch(msg tea.KeyMsg) (*Roster, tea.Cmd) {
	if key.Matches(msg, input.Default.Back) || key.Matches(msg, input.Default.Accept) {
		return m, command.SetFocus(model.PageRoster, model.KZplayerTable)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	if m.searchInput.Value() != m.view.Query() {
		m.view.SetSearch(m.searchInput.Value())
		m.sync()
	}

	return m, cmd
}

func (m *Roster) beginFetch() tea.Cmd {
	token, ok := m.view.BeginFetch()
	if !ok {
		return nil
	}

	m.banner = component.ErrorBanner{}

	return tea.Batch(m.spinner.Tick, command.Fetch(m.ctx, m.fetcher, token))
}

// sync pushes the derived views into the child components.
func (m *Roster) sync() {
	m.tagBar.SetTags(m.view.Tags(), m.view.Active())
	m.table.SetPlayers(m.view.ActivePlayers())

	if _, ok := m.table.Selected(); !ok {
		m.detail.Clear()
	}
}

func (m *Roster) propagate(msg tea.Msg, extra ...tea.Cmd) (*Roster, tea.Cmd) {
	cmds := make([]tea.Cmd, 3, 3+len(extra))

	m.tagBar, cmds[0] = m.tagBar.Update(msg)
	m.table, cmds[1] = m.table.Update(msg)
	m.detail, cmds[2] = m.detail.Update(msg)

	return m, tea.Batch(append(cmds, extra...)...)
}

func (m *Roster) View() string {
	width := m.viewState.Width
	rows := []string{m.tagBar.View(), m.searchLine()}

	if m.banner.Visible() {
		rows = append(rows, m.banner.Render(width))
	}

	bodyHeight := max(0, m.viewState.Upper-lipgloss.Height(lipgloss.JoinVertical(lipgloss.Left, rows...)))

	return lipgloss.JoinVertical(lipgloss.Left, append(rows, m.body(width, bodyHeight))...)
}

func (m *Roster) searchLine() string {
	if m.viewState.KeyZone == model.KZsearchInput || m.view.Query() != "" {
		return m.searchInput.View()
	}

	return styles.HelpStyle.Render(fmt.Sprintf("%s %s", input.Default.Search.Help().Key, input.Default.Search.Help().Desc))
}

func (m *Roster) body(width int, height int) string {
	switch m.view.Status() {
	case roster.StatusLoading:
		return m.message(width, height, m.spinner.View()+" Loading players…")
	case roster.StatusIdle:
		return m.message(width, height, "Waiting for login")
	case roster.StatusError:
		return m.message(width, height, fmt.Sprintf("%s Player list unavailable, press %s to retry",
			styles.IconError, input.Default.Retry.Help().Key))
	case roster.StatusReady:
	}

	players := m.view.ActivePlayers()
	display := m.view.ActiveDisplay()
	if display == "" {
		display = "Players"
	}
	title := fmt.Sprintf(" %s (%d) ", display, len(players))
	if m.view.Searching() {
		title = fmt.Sprintf(" %s (%d of %d matches) ", display, len(players), m.view.Grouping().Total())
	}

	if len(players) == 0 {
		return model.Container(title, width, height, m.emptyState(), false)
	}

	tableWidth := width * 3 / 5
	detailWidth := width - tableWidth

	left := model.Container(title, tableWidth, height,
		m.table.Render(max(0, tableWidth-2), max(0, height-2)),
		m.viewState.KeyZone == model.KZplayerTable)
	right := model.Container(" Player ", detailWidth, height,
		m.detail.Render(max(0, detailWidth-2), max(0, height-2)), false)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// emptyState explains why the active group shows nobody instead of switching to another group.
func (m *Roster) emptyState() string {
	switch {
	case len(m.view.Players()) == 0:
		return styles.InfoMessage.Render(styles.IconEmpty + " No players online")
	case m.view.Searching():
		return styles.InfoMessage.Render(fmt.Sprintf("%s No players in %s match %q",
			styles.IconEmpty, m.view.ActiveDisplay(), m.view.Query()))
	default:
		return styles.InfoMessage.Render(styles.IconEmpty + " No players in this group")
	}
}

func (m *Roster) message(width int, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styles.InfoMessage.Render(content))
}
