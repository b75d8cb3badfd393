package config

import (
	"errors"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/leighmacdonald/roster-tui/internal/roster"
	"github.com/spf13/viper"
)

var errNoServerCode = errors.New("server_code must be set")

// Writer persists config changes.
type Writer interface {
	Write(config Config) error
	Path() string
}

// Loader handles setting up viper, loading configuration from files, and broadcasting configuration changes.
type Loader struct {
	*viper.Viper
	changes chan<- Config
}

func NewLoader(changes chan<- Config) *Loader {
	loader := Loader{changes: changes, Viper: viper.New()}
	loader.SetDefault("server_code", DefaultServerCode)
	loader.SetDefault("api_base_url", DefaultAPIBaseURL)
	loader.SetDefault("http_timeout_sec", int(DefaultHTTPTimeout.Seconds()))
	loader.SetDefault("license_api_url", "")
	loader.SetDefault("listen_address", "127.0.0.1:8765")
	loader.SetDefault("geoip_db_path", "")
	loader.SetDefault("teams", teamsToMaps(DefaultTeams()))
	loader.SetDefault("links", []map[string]string{
		{
			"url":    "https://steamid.uk/profile/%s",
			"name":   "SteamID.uk",
			"format": string(Steam64),
		},
	})
	loader.SetDefault("debug", false)
	loader.SetDefault("log_level", "info")
	loader.SetConfigName(DefaultConfigName)
	loader.SetConfigType("yaml")
	loader.SetEnvPrefix(EnvPrefix)
	loader.AddConfigPath(Path(""))
	loader.AddConfigPath(".")
	loader.AutomaticEnv()

	return &loader
}

// Watch enables reloading the config when the file changes on disk. Updates are sent over the
// changes channel.
func (cl *Loader) Watch() {
	if cl.changes == nil {
		return
	}

	cl.OnConfigChange(cl.onConfigChange)
	cl.WatchConfig()
}

func (cl *Loader) Path() string {
	return cl.ConfigFileUsed()
}

func (cl *Loader) onConfigChange(in fsnotify.Event) {
	if !in.Has(fsnotify.Write) && !in.Has(fsnotify.Rename) {
		return
	}

	slog.Debug("External config reload triggered", slog.String("file", in.Name))
	config, err := cl.Read()
	if err != nil {
		slog.Error("Error reading config", slog.String("error", err.Error()))

		return
	}

	cl.changes <- config
}

func (cl *Loader) Write(config Config) error {
	cl.Set("server_code", config.ServerCode)
	cl.Set("api_base_url", config.APIBaseURL)
	cl.Set("http_timeout_sec", config.HTTPTimeoutSec)
	cl.Set("license_api_url", config.LicenseAPIURL)
	cl.Set("listen_address", config.ListenAddress)
	cl.Set("geoip_db_path", config.GeoIPDBPath)
	cl.Set("teams", teamsToMaps(config.Teams))
	cl.Set("links", config.Links)
	cl.Set("debug", config.Debug)
	cl.Set("log_level", config.LogLevel)

	if err := cl.WriteConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Join(err, errConfigWrite)
		}

		if errSafe := cl.SafeWriteConfig(); errSafe != nil {
			return errors.Join(errSafe, errConfigWrite)
		}
	}

	return nil
}

func (cl *Loader) Read() (Config, error) {
	if err := cl.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return Config{}, errors.Join(err, errConfigRead)
		}
	}

	var config Config
	if err := cl.Unmarshal(&config); err != nil {
		return Config{}, errors.Join(err, errConfigRead)
	}

	if config.ServerCode == "" {
		return Config{}, errors.Join(errNoServerCode, errConfigRead)
	}

	if len(config.Teams) == 0 {
		config.Teams = DefaultTeams()
	}

	return config, nil
}

// teamsToMaps converts the team table into the shape viper expects for defaults and writes.
func teamsToMaps(teams []roster.TeamMapping) []map[string]any {
	out := make([]map[string]any, len(teams))
	for idx, team := range teams {
		out[idx] = map[string]any{
			"canonical_name": team.CanonicalName,
			"display_name":   team.DisplayName,
			"whole_word":     team.WholeWord,
		}

		if len(team.Aliases) > 0 {
			out[idx]["aliases"] = team.Aliases
		}
	}

	return out
}
