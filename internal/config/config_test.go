package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leighmacdonald/roster-tui/internal/config"
	"github.com/leighmacdonald/steamid/v4/steamid"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "roster-tui.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o600))

	return configPath
}

func TestReadDefaults(t *testing.T) {
	loader := config.NewLoader(nil)
	loader.SetConfigFile(writeConfig(t, "server_code: abc123\n"))

	conf, err := loader.Read()
	require.NoError(t, err)
	require.Equal(t, "abc123", conf.ServerCode)
	require.Equal(t, config.DefaultAPIBaseURL+"abc123", conf.StatusURL())
	require.Equal(t, config.DefaultHTTPTimeout, conf.HTTPTimeout())
	require.Equal(t, config.DefaultTeams(), conf.Teams)
	require.Len(t, conf.Links, 1)
}

func TestReadTeams(t *testing.T) {
	loader := config.NewLoader(nil)
	loader.SetConfigFile(writeConfig(t, `
server_code: xyz
api_base_url: http://localhost:9000/api
http_timeout_sec: 3
teams:
  - canonical_name: ravens
    display_name: Ravens
    aliases: [rvn, rt]
    whole_word: true
  - canonical_name: forza
`))

	conf, err := loader.Read()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9000/api/xyz", conf.StatusURL())
	require.Equal(t, 3*time.Second, conf.HTTPTimeout())
	require.Len(t, conf.Teams, 2)
	require.Equal(t, "ravens", conf.Teams[0].CanonicalName)
	require.Equal(t, []string{"rvn", "rt"}, conf.Teams[0].Aliases)
	require.True(t, conf.Teams[0].WholeWord)
	require.Equal(t, "forza", conf.Teams[1].CanonicalName)
	require.False(t, conf.Teams[1].WholeWord)
}

func TestReadRequiresServerCode(t *testing.T) {
	loader := config.NewLoader(nil)
	loader.SetConfigFile(writeConfig(t, "server_code: \"\"\n"))

	_, err := loader.Read()
	require.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	configPath := writeConfig(t, "server_code: first\n")
	loader := config.NewLoader(nil)
	loader.SetConfigFile(configPath)

	conf, err := loader.Read()
	require.NoError(t, err)

	conf.ServerCode = "second"
	conf.Teams = conf.Teams[:2]
	require.NoError(t, loader.Write(conf))

	reader := config.NewLoader(nil)
	reader.SetConfigFile(configPath)
	reloaded, errReload := reader.Read()
	require.NoError(t, errReload)
	require.Equal(t, "second", reloaded.ServerCode)
	require.Equal(t, conf.Teams, reloaded.Teams)
}

func TestUserLinkGenerate(t *testing.T) {
	sid := steamid.New("76561197960265749")
	link := config.UserLink{URL: "https://steamcommunity.com/profiles/%s", Format: config.Steam64}
	require.Equal(t, "https://steamcommunity.com/profiles/76561197960265749", link.Generate(sid))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, config.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, config.ParseLevel("warning"))
	require.Equal(t, slog.LevelInfo, config.ParseLevel(""))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := config.NewLogger(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("visible", slog.String("key", "value"))

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "visible")
	require.Contains(t, buf.String(), "key=value")
}
