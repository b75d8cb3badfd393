package pages

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leighmacdonald/roster-tui/internal/auth"
	"github.com/leighmacdonald/roster-tui/internal/license"
	"github.com/leighmacdonald/roster-tui/internal/ui/command"
	"github.com/leighmacdonald/roster-tui/internal/ui/component"
	"github.com/leighmacdonald/roster-tui/internal/ui/input"
	"github.com/leighmacdonald/roster-tui/internal/ui/model"
	"github.com/leighmacdonald/roster-tui/internal/ui/styles"
	zone "github.com/lrstanley/bubblezone"
)

// Login is the license key entry page. It is shown while a saved session is being restored and
// whenever no valid session exists.
type Login struct {
	ctx       context.Context //nolint:containedctx
	session   *auth.Session
	id        string
	keyInput  *component.ValidatingTextInputModel
	spinner   spinner.Model
	viewState model.ViewState
	savedKey  string
	reveal    bool
	restoring bool
	pending   bool
	errMsg    string
}

func NewLogin(ctx context.Context, session *auth.Session) *Login {
	return &Login{
		ctx:     ctx,
		session: session,
		id:      zone.NewPrefix(),
		keyInput: component.NewValidatingTextInputModel("License Key", "", "XXXX-XXXX-XXXX-XXXX",
			component.LicenseKeyValidator{}),
		spinner:   component.NewSpinner(),
		restoring: true,
	}
}

func (m *Login) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Login) Update(msg tea.Msg) (*Login, tea.Cmd) {
	switch msg := msg.(type) {
	case model.ViewState:
		m.viewState = msg
		if msg.Page == model.PageLogin && msg.KeyZone == model.KZloginInput {
			return m, m.keyInput.Focus()
		}

		m.keyInput.Blur()
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case command.RestoreFailedMsg:
		m.restoring = false
		m.savedKey = msg.SavedKey
		if msg.Err != nil {
			m.errMsg = license.Message(msg.Err)
		}

		return m, m.focus()
	case command.LoginFailedMsg:
		m.pending = false
		m.errMsg = license.Message(msg.Err)
	case command.LoginSucceededMsg:
		m.pending = false
		m.restoring = false
		m.errMsg = ""
		m.keyInput.Reset()
	case command.LogoutMsg:
		m.savedKey = msg.SavedKey
		m.reveal = false
		m.errMsg = ""

		return m, m.focus()
	case tea.MouseMsg:
		if m.viewState.Page != model.PageLogin || m.busy() {
			return m, nil
		}

		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}

		switch {
		case zone.Get(m.id + "login").InBounds(msg):
			return m, m.submit(m.keyInput.Value())
		case zone.Get(m.id + "saved").InBounds(msg):
			return m, m.submit(m.savedKey)
		case zone.Get(m.id + "reveal").InBounds(msg):
			m.reveal = !m.reveal
		}
	case tea.KeyMsg:
		if m.viewState.Page != model.PageLogin || m.busy() {
			return m, nil
		}

		switch {
		case key.Matches(msg, input.Default.Accept):
			return m, m.submit(m.keyInput.Value())
		case key.Matches(msg, input.Default.UseSaved):
			if m.savedKey == "" {
				return m, nil
			}

			return m, m.submit(m.savedKey)
		case key.Matches(msg, input.Default.Reveal):
			m.reveal = !m.reveal

			return m, nil
		case key.Matches(msg, input.Default.ClearInput):
			m.keyInput.Reset()

			return m, nil
		}

		m.errMsg = ""

		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Login) busy() bool {
	return m.restoring || m.pending
}

func (m *Login) focus() tea.Cmd {
	return command.SetFocus(model.PageLogin, model.KZloginInput)
}

func (m *Login) submit(value string) tea.Cmd {
	if license.NormalizeKey(value) == "" {
		m.errMsg = license.Message(license.ErrInvalidParams)

		return nil
	}

	if !m.keyInput.Valid() && value == m.keyInput.Value() {
		m.errMsg = license.Message(license.ErrInvalidLicense)

		return nil
	}

	m.pending = true
	m.errMsg = ""

	return tea.Batch(m.spinner.Tick, command.Login(m.ctx, m.session, value))
}

func (m *Login) View() string {
	rows := []string{styles.LoginTitle.Render("FiveM Roster")}

	switch {
	case m.restoring:
		rows = append(rows, m.spinner.View()+" Checking saved license…")
	default:
		rows = append(rows, m.keyInput.View())

		if m.savedKey != "" {
			rows = append(rows, "",
				styles.LoginSaved.Render("Saved license: "+m.maskedSaved()),
				lipgloss.JoinHorizontal(lipgloss.Top,
					zone.Mark(m.id+"saved", styles.LoginButton.Render("[ Use saved ]")),
					" ",
					zone.Mark(m.id+"reveal", styles.HelpStyle.Render(m.revealLabel()))))
		}

		rows = append(rows, "", zone.Mark(m.id+"login", styles.LoginButton.Render("[ Login ]")))

		if m.pending {
			rows = append(rows, "", m.spinner.View()+" Validating…")
		}

		if m.errMsg != "" {
			rows = append(rows, "", styles.LoginError.Render(m.errMsg))
		}
	}

	box := styles.LoginBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	return lipgloss.Place(m.viewState.Width, m.viewState.Upper, lipgloss.Center, lipgloss.Center, box)
}

func (m *Login) revealLabel() string {
	if m.reveal {
		return input.Default.Reveal.Help().Key + " hide"
	}

	return input.Default.Reveal.Help().Key + " show"
}

func (m *Login) maskedSaved() string {
	if m.reveal {
		return m.savedKey
	}

	if len(m.savedKey) <= 8 {
		return strings.Repeat("*", len(m.savedKey))
	}

	return license.Mask(m.savedKey)
}
