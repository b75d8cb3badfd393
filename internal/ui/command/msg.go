package command

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leighmacdonald/roster-tui/internal/auth"
	"github.com/leighmacdonald/roster-tui/internal/config"
	"github.com/leighmacdonald/roster-tui/internal/fivem"
	"github.com/leighmacdonald/roster-tui/internal/geoip"
	"github.com/leighmacdonald/roster-tui/internal/license"
	"github.com/leighmacdonald/roster-tui/internal/roster"
	"github.com/leighmacdonald/roster-tui/internal/ui/model"
)

const (
	ClearMessageTimeout = time.Second * 10
	ClockInterval       = time.Second * 15
	fetchTimeout        = time.Second * 30
	loginTimeout        = time.Second * 20
)

func SetViewState(state model.ViewState) tea.Cmd {
	return func() tea.Msg { return state }
}

func SetFocus(page model.Page, zone model.KeyZone) tea.Cmd {
	return func() tea.Msg { return model.Focus{Page: page, KeyZone: zone} }
}

type ClearStatusMessageMsg struct{}

func ClearErrorAfter(t time.Duration) tea.Cmd {
	return tea.Tick(t, func(_ time.Time) tea.Msg {
		return ClearStatusMessageMsg{}
	})
}

type StatusMsg struct {
	Message string
	Err     bool
}

func SetStatusMessage(msg string, err bool) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Message: msg, Err: err}
	}
}

func SetConfig(config config.Config) tea.Cmd {
	return func() tea.Msg { return config }
}

// ClockMsg is used to refresh relative times, eg: "fetched 2 minutes ago".
type ClockMsg time.Time

func Clock() tea.Cmd {
	return tea.Tick(ClockInterval, func(t time.Time) tea.Msg {
		return ClockMsg(t)
	})
}

// FetchSucceededMsg carries a player list result. Token identifies the fetch attempt it belongs to.
type FetchSucceededMsg struct {
	Token  roster.Token
	Status fivem.Status
}

type FetchFailedMsg struct {
	Token roster.Token
	Err   error
}

func Fetch(ctx context.Context, fetcher fivem.Fetcher, token roster.Token) tea.Cmd {
	return func() tea.Msg {
		fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()

		status, err := fetcher.Fetch(fetchCtx)
		if err != nil {
			return FetchFailedMsg{Token: token, Err: err}
		}

		return FetchSucceededMsg{Token: token, Status: status}
	}
}

// ServerStatusMsg is sent once a fetch result has been accepted by the roster.
type ServerStatusMsg struct {
	Hostname   string
	Clients    int
	MaxClients int
	FetchedAt  time.Time
}

func SetServerStatus(status fivem.Status) tea.Cmd {
	return func() tea.Msg {
		return ServerStatusMsg{
			Hostname:   status.Hostname,
			Clients:    status.Clients,
			MaxClients: status.MaxClients,
			FetchedAt:  status.FetchedAt,
		}
	}
}

type SelectedPlayerMsg struct {
	Player roster.PlayerRecord
}

func SelectPlayer(player roster.PlayerRecord) tea.Cmd {
	return func() tea.Msg {
		return SelectedPlayerMsg{Player: player}
	}
}

type SelectTagMsg struct {
	Key string
}

func SelectTag(key string) tea.Cmd {
	return func() tea.Msg { return SelectTagMsg{Key: key} }
}

type GeoMsg struct {
	Endpoint string
	Record   geoip.Record
	Err      error
}

func LookupGeo(ctx context.Context, resolver geoip.Resolver, endpoint string) tea.Cmd {
	if resolver == nil || endpoint == "" {
		return nil
	}

	return func() tea.Msg {
		record, err := resolver.Lookup(ctx, endpoint)

		return GeoMsg{Endpoint: endpoint, Record: record, Err: err}
	}
}

// LoginSucceededMsg is sent after an interactive login, or a silent restore of a saved session.
type LoginSucceededMsg struct {
	Info     license.Info
	Key      string
	Restored bool
}

type LoginFailedMsg struct {
	Err error
}

// RestoreFailedMsg is sent when no saved session could be restored and the user must log in.
type RestoreFailedMsg struct {
	SavedKey string
	Err      error
}

type LogoutMsg struct {
	SavedKey string
}

func Login(ctx context.Context, session *auth.Session, key string) tea.Cmd {
	return func() tea.Msg {
		loginCtx, cancel := context.WithTimeout(ctx, loginTimeout)
		defer cancel()

		info, err := session.Login(loginCtx, key)
		if err != nil {
			return LoginFailedMsg{Err: err}
		}

		return LoginSucceededMsg{Info: info, Key: session.Key()}
	}
}

func Restore(ctx context.Context, session *auth.Session) tea.Cmd {
	return func() tea.Msg {
		loginCtx, cancel := context.WithTimeout(ctx, loginTimeout)
		defer cancel()

		restored, err := session.Restore(loginCtx)
		if !restored {
			return RestoreFailedMsg{SavedKey: session.SavedKey(loginCtx), Err: err}
		}

		return LoginSucceededMsg{Info: session.Info(), Key: session.Key(), Restored: true}
	}
}

func Logout(ctx context.Context, session *auth.Session) tea.Cmd {
	return func() tea.Msg {
		if err := session.Logout(ctx); err != nil {
			return StatusMsg{Message: "Failed to clear saved license: " + err.Error(), Err: true}
		}

		return LogoutMsg{SavedKey: session.SavedKey(ctx)}
	}
}
