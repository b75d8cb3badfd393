package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/fang"
	_ "github.com/joho/godotenv/autoload"
	"github.com/leighmacdonald/roster-tui/internal/auth"
	"github.com/leighmacdonald/roster-tui/internal/config"
	"github.com/leighmacdonald/roster-tui/internal/device"
	"github.com/leighmacdonald/roster-tui/internal/fivem"
	"github.com/leighmacdonald/roster-tui/internal/geoip"
	"github.com/leighmacdonald/roster-tui/internal/license"
	"github.com/leighmacdonald/roster-tui/internal/license/licenseapi"
	"github.com/leighmacdonald/roster-tui/internal/network"
	"github.com/leighmacdonald/roster-tui/internal/store"
	"github.com/leighmacdonald/roster-tui/internal/ui"
	"github.com/spf13/cobra"
)

var (
	BuildVersion   = "master"
	BuildCommit    = "00000000"
	BuildDate      = time.Now().Format("2006-01-02T15:04:05Z")
	BuildGoVersion = runtime.Version()
	cfgFile        string
	rootCmd        = &cobra.Command{
		Use:   "roster-tui",
		Short: "FiveM player roster TUI",
		Long:  `roster-tui - A terminal roster of the players on a FiveM server, grouped by team tag`,
		RunE:  run,
	}

	versionCmd = &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Long:              "Print detailed version information about roster-tui",
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		Run:               version,
	}
)

var errApp = errors.New("application error")

func main() {
	configPath := config.Path(config.DefaultConfigName + ".yaml")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", configPath, "Config file path")
	rootCmd.AddCommand(versionCmd, serveCmd(), licenseCmd())

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		slog.Error("Exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func version(_ *cobra.Command, _ []string) {
	fmt.Printf("roster-tui - FiveM Roster Terminal UI\n\n") //nolint:forbidigo
	fmt.Printf("  Version: %s\n", BuildVersion)             //nolint:forbidigo
	fmt.Printf("  Commit:  %s\n", BuildCommit)              //nolint:forbidigo
	fmt.Printf("  Built:   %s\n", BuildDate)                //nolint:forbidigo
	fmt.Printf("  Runtime: %s\n\n", BuildGoVersion)         //nolint:forbidigo
}

func userAgent() string {
	return "roster-tui/" + BuildVersion
}

// setup reads the config and opens the logger and database shared by all commands. The returned
// closer releases them in reverse order.
func setup(ctx context.Context, configUpdates chan config.Config) (*config.Loader, config.Config, *sql.DB, func(), error) {
	// Make sure our config & data home exists.
	if err := os.MkdirAll(path.Join(xdg.ConfigHome, config.ConfigDirName), 0o750); err != nil {
		return nil, config.Config{}, nil, nil, errors.Join(err, errApp)
	}

	loader := config.NewLoader(configUpdates)
	if cfgFile != "" {
		if _, errStat := os.Stat(cfgFile); errStat == nil {
			loader.SetConfigFile(cfgFile)
		}
	}

	userConfig, errConfig := loader.Read()
	if errConfig != nil {
		return nil, config.Config{}, nil, nil, errors.Join(errConfig, errApp)
	}

	level := config.ParseLevel(userConfig.LogLevel)
	if userConfig.Debug {
		level = slog.LevelDebug
	}

	// Setup file based logger. This is very useful for us as our console is taken over by the ui.
	logFile, errLogger := config.LoggerInit(config.DefaultLogName, level)
	if errLogger != nil {
		return nil, config.Config{}, nil, nil, errors.Join(errLogger, errApp)
	}

	database, errDB := store.Open(ctx, config.Path(config.DefaultDBName), true)
	if errDB != nil {
		closeLog(logFile)

		return nil, config.Config{}, nil, nil, errors.Join(errDB, errApp)
	}

	closer := func() {
		if err := database.Close(); err != nil {
			slog.Error("Error closing database", slog.String("error", err.Error()))
		}

		closeLog(logFile)
	}

	return loader, userConfig, database, closer, nil
}

func closeLog(closer io.Closer) {
	if err := closer.Close(); err != nil {
		slog.Error("Failed to close log file", slog.String("error", err.Error()))
	}
}

// newGate selects the remote license server when configured, otherwise licenses are validated
// against the local database.
func newGate(conf config.Config, queries *store.Queries) license.Gate {
	if conf.LicenseAPIURL != "" {
		return licenseapi.NewClient(network.NewClient(conf.HTTPTimeout(), userAgent()), conf.LicenseAPIURL)
	}

	return license.NewService(queries)
}

// run is the main entry point of roster-tui.
func run(cmd *cobra.Command, _ []string) error {
	configUpdates := make(chan config.Config)

	loader, userConfig, database, closer, errSetup := setup(cmd.Context(), configUpdates)
	if errSetup != nil {
		return errSetup
	}
	defer closer()

	slog.Info("Starting roster-tui", slog.String("version", BuildVersion),
		slog.String("commit", BuildCommit), slog.String("date", BuildDate),
		slog.String("go", runtime.Version()), slog.String("server", userConfig.ServerCode))

	loader.Watch()

	queries := store.New(database)
	session := auth.NewSession(newGate(userConfig, queries), queries, device.ID())
	fetcher := fivem.New(network.NewClient(userConfig.HTTPTimeout(), userAgent()), userConfig.StatusURL())

	deps := ui.Deps{Session: session, Fetcher: fetcher}

	geoDB, errGeo := geoip.Open(userConfig.GeoIPDBPath)
	if errGeo != nil {
		slog.Warn("GeoIP lookups disabled", slog.String("error", errGeo.Error()))
	} else if geoDB != nil {
		deps.Resolver = geoDB
		defer func() {
			if err := geoDB.Close(); err != nil {
				slog.Error("Error closing geoip database", slog.String("error", err.Error()))
			}
		}()
	}

	done := make(chan any)
	app := NewApp(userConfig, configUpdates)

	userInterface := app.createUI(cmd.Context(), deps, loader.Path())

	go func() {
		if err := userInterface.Run(); err != nil {
			slog.Error("Failed to run UI", slog.String("error", err.Error()))
		}

		close(done)
	}()

	app.Start(cmd.Context(), done)

	return nil
}
