package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/leighmacdonald/roster-tui/internal/roster"
	"github.com/leighmacdonald/steamid/v4/steamid"
)

var (
	errConfigWrite = errors.New("failed to write config file")
	errConfigRead  = errors.New("failed to read config file")
	errLoggerInit  = errors.New("failed to initialize logger")
)

const (
	ConfigDirName      = "roster-tui"
	DefaultConfigName  = "roster-tui"
	DefaultDBName      = "roster-tui.db"
	DefaultLogName     = "roster-tui.log"
	EnvPrefix          = "rostertui"
	DefaultHTTPTimeout = 15 * time.Second
	DefaultAPIBaseURL  = "https://servers-frontend.fivem.net/api/servers/single/"
	DefaultServerCode  = "jxdlkm"
)

type Config struct {
	// ServerCode is the cfx.re join code of the server to monitor, eg: cfx.re/join/jxdlkm.
	ServerCode     string `mapstructure:"server_code"`
	APIBaseURL     string `mapstructure:"api_base_url"`
	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec"`
	// LicenseAPIURL, when set, points to a remote license server (see the serve command) instead of
	// validating against the local database.
	LicenseAPIURL string `mapstructure:"license_api_url"`
	// ListenAddress is the bind address used by the serve command.
	ListenAddress string `mapstructure:"listen_address"`
	// GeoIPDBPath optionally points to a maxmind compatible country database used to resolve
	// player endpoints.
	GeoIPDBPath string               `mapstructure:"geoip_db_path"`
	Teams       []roster.TeamMapping `mapstructure:"teams"`
	Links       []UserLink           `mapstructure:"links"`
	Debug       bool                 `mapstructure:"debug"`
	LogLevel    string               `mapstructure:"log_level"`
}

// HTTPTimeout returns the configured http timeout, falling back to DefaultHTTPTimeout.
func (c Config) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSec <= 0 {
		return DefaultHTTPTimeout
	}

	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// StatusURL returns the full url of the server status endpoint.
func (c Config) StatusURL() string {
	base := c.APIBaseURL
	if base == "" {
		base = DefaultAPIBaseURL
	}

	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return base + c.ServerCode
}

type SIDFormats string

const (
	Steam64 SIDFormats = "steam64"
	Steam2  SIDFormats = "steam"
	Steam3  SIDFormats = "steam3"
)

type UserLink struct {
	URL    string     `mapstructure:"url"`
	Name   string     `mapstructure:"name"`
	Format SIDFormats `mapstructure:"format"`
}

func (u UserLink) Generate(steamID steamid.SteamID) string {
	switch u.Format {
	case Steam2:
		return fmt.Sprintf(u.URL, steamID.Steam(false))
	case Steam3:
		return fmt.Sprintf(u.URL, steamID.Steam3())
	case Steam64:
		fallthrough
	default:
		return fmt.Sprintf(u.URL, steamID.String())
	}
}

// DefaultTeams is the team table used when none is configured. Order matters, the first matching
// entry wins.
func DefaultTeams() []roster.TeamMapping {
	return []roster.TeamMapping{
		{CanonicalName: "forza", Aliases: []string{"frz"}, DisplayName: "Forza"},
		{CanonicalName: "montreal", Aliases: []string{"mtl"}, DisplayName: "Montreal"},
		{CanonicalName: "inverse", DisplayName: "Inverse"},
		{CanonicalName: "lucies", DisplayName: "Lucies"},
		{CanonicalName: "ravens", DisplayName: "Ravens"},
		{CanonicalName: "compton", DisplayName: "Compton"},
		{CanonicalName: "espada", DisplayName: "Espada"},
		{CanonicalName: "twistenz", DisplayName: "Twistenz"},
		{CanonicalName: "ratés", DisplayName: "Ratés"},
		{CanonicalName: "peres", DisplayName: "Peres"},
		{CanonicalName: "zenty", DisplayName: "Zenty"},
		{CanonicalName: "lunatic", DisplayName: "Lunatic"},
		{CanonicalName: "rates", DisplayName: "Rates"},
		{CanonicalName: "resiva", DisplayName: "Resiva"},
		{CanonicalName: "sativa", DisplayName: "Sativa"},
		{CanonicalName: "1786", DisplayName: "1786"},
		{CanonicalName: "kaines", DisplayName: "Kaines"},
		{CanonicalName: "pdmd", DisplayName: "PDMD"},
	}
}

// Path generates a path pointing to the filename under this apps defined $XDG_CONFIG_HOME.
func Path(name string) string {
	fullPath, errFullPath := xdg.ConfigFile(path.Join(ConfigDirName, name))
	if errFullPath != nil {
		panic(errFullPath)
	}

	return fullPath
}

// ParseLevel converts a config level name into a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoggerInit sets up the slog global handler to use a log file as we cant print to the console.
func LoggerInit(logPath string, level slog.Level) (io.Closer, error) {
	logFile, errLogFile := os.Create(path.Join(xdg.ConfigHome, ConfigDirName, logPath))
	if errLogFile != nil {
		return nil, errors.Join(errLogFile, errLoggerInit)
	}

	slog.SetDefault(NewLogger(logFile, level))

	return logFile, nil
}

// NewLogger returns a slog logger backed by a charm log handler writing to output.
func NewLogger(output io.Writer, level slog.Level) *slog.Logger {
	handler := log.NewWithOptions(output, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           log.Level(level),
	})

	return slog.New(handler)
}
