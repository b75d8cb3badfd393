package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leighmacdonald/roster-tui/internal/auth"
	"github.com/leighmacdonald/roster-tui/internal/config"
	"github.com/leighmacdonald/roster-tui/internal/fivem"
	"github.com/leighmacdonald/roster-tui/internal/geoip"
	"github.com/leighmacdonald/roster-tui/internal/ui/pages"
	zone "github.com/lrstanley/bubblezone"
)

var ErrUIExit = errors.New("ui error returned")

// Deps holds the services the ui talks to.
type Deps struct {
	Session  *auth.Session
	Fetcher  fivem.Fetcher
	Resolver geoip.Resolver
}

type UI struct {
	program *tea.Program
}

func New(ctx context.Context, conf config.Config, deps Deps, build pages.BuildInfo, configPath string, dbPath string) *UI {
	zone.NewGlobal()

	return &UI{
		program: tea.NewProgram(
			newRootModel(ctx, conf, deps, build, configPath, dbPath),
			tea.WithMouseCellMotion(),
			tea.WithAltScreen(),
			tea.WithContext(ctx),
			tea.WithFPS(30)),
	}
}

func (t UI) Run() error {
	if _, err := t.program.Run(); err != nil {
		return errors.Join(err, ErrUIExit)
	}

	return nil
}

func (t UI) Send(msg tea.Msg) {
	t.program.Send(msg)
}
