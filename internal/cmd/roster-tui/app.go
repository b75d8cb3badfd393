package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leighmacdonald/roster-tui/internal/config"
	"github.com/leighmacdonald/roster-tui/internal/ui"
	"github.com/leighmacdonald/roster-tui/internal/ui/pages"
)

type UI interface {
	Send(msg tea.Msg)
	Run() error
}

// App is the main application container. Very little logic is contained within this struct. Its mostly
// responsible for routing messages between different systems.
type App struct {
	ui            UI
	config        config.Config
	configUpdates chan config.Config
}

// NewApp returns a new application instance. To actually start the app you must call Start().
func NewApp(conf config.Config, configUpdates chan config.Config) *App {
	return &App{
		config:        conf,
		configUpdates: configUpdates,
	}
}

// Start runs the main event routing loop until the context is cancelled or the ui exits.
func (app *App) Start(ctx context.Context, done <-chan any) {
	for {
		select {
		case conf := <-app.configUpdates:
			app.config = conf
			if app.ui != nil {
				app.ui.Send(conf)
			}
		case <-ctx.Done():
			return
		case <-done:
			return
		}
	}
}

func (app *App) createUI(ctx context.Context, deps ui.Deps, configPath string) UI {
	if app.ui == nil {
		app.ui = ui.New(
			ctx,
			app.config,
			deps,
			pages.BuildInfo{Version: BuildVersion, Commit: BuildCommit, Date: BuildDate},
			configPath,
			config.Path(config.DefaultDBName))
	}

	return app.ui
}
