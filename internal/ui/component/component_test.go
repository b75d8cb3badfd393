package component_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leighmacdonald/roster-tui/internal/roster"
	"github.com/leighmacdonald/roster-tui/internal/ui/command"
	"github.com/leighmacdonald/roster-tui/internal/ui/component"
	"github.com/leighmacdonald/roster-tui/internal/ui/model"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	m.Run()
}

func TestSteamID(t *testing.T) {
	sid, ok := component.SteamID(roster.PlayerRecord{
		Identifiers: []string{"license:abc", "steam:110000100000015"},
	})
	require.True(t, ok)
	require.Equal(t, "76561197960265749", sid.String())

	_, ok = component.SteamID(roster.PlayerRecord{Identifiers: []string{"steam:nothex"}})
	require.False(t, ok)

	_, ok = component.SteamID(roster.PlayerRecord{Identifiers: []string{"discord:1234"}})
	require.False(t, ok)
}

func TestLicenseKeyValidator(t *testing.T) {
	validator := component.LicenseKeyValidator{}

	require.NoError(t, validator.Validate(""))
	require.NoError(t, validator.Validate("abcd-1234-EFGH-5678"))
	require.NoError(t, validator.Validate("  ABCD1234 "))
	require.Error(t, validator.Validate("ABCD_1234"))
	require.Error(t, validator.Validate("ABCD 1234"))
}

func keyMsg(value string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
}

func TestPlayerTableSelection(t *testing.T) {
	table := component.NewPlayerTableModel()
	table, _ = table.Update(model.ViewState{Page: model.PageRoster, KeyZone: model.KZplayerTable})
	table.SetPlayers([]roster.PlayerRecord{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}})

	_, selected := table.Selected()
	require.False(t, selected)

	table, cmd := table.Update(keyMsg("j"))
	require.NotNil(t, cmd)
	require.Equal(t, command.SelectedPlayerMsg{Player: roster.PlayerRecord{ID: 1, Name: "a"}}, cmd())

	table, _ = table.Update(keyMsg("j"))
	table, _ = table.Update(keyMsg("j"))
	player, _ := table.Selected()
	require.Equal(t, 3, player.ID)

	// Already at the bottom.
	table, cmd = table.Update(keyMsg("j"))
	require.Nil(t, cmd)

	table, _ = table.Update(keyMsg("k"))
	player, _ = table.Selected()
	require.Equal(t, 2, player.ID)

	// The selection is dropped once the player leaves the group.
	table.SetPlayers([]roster.PlayerRecord{{ID: 1, Name: "a"}})
	_, selected = table.Selected()
	require.False(t, selected)
}

func TestPlayerTableIgnoresKeysOutsideZone(t *testing.T) {
	table := component.NewPlayerTableModel()
	table, _ = table.Update(model.ViewState{Page: model.PageRoster, KeyZone: model.KZsearchInput})
	table.SetPlayers([]roster.PlayerRecord{{ID: 1, Name: "a"}})

	_, cmd := table.Update(keyMsg("j"))
	require.Nil(t, cmd)
}

func TestPlayerTableRender(t *testing.T) {
	table := component.NewPlayerTableModel()
	table.SetPlayers([]roster.PlayerRecord{{ID: 42, Name: "Forza Alice", Ping: 55}})

	out := table.Render(60, 10)
	require.Contains(t, out, "Forza Alice")
	require.Contains(t, out, "55 ms")
	require.Empty(t, table.Render(0, 10))
}

func TestErrorBanner(t *testing.T) {
	var banner component.ErrorBanner
	require.False(t, banner.Visible())
	require.Empty(t, banner.Render(80))

	banner.Show("timeout")
	require.True(t, banner.Visible())
	require.Contains(t, banner.Render(120), "timeout")

	banner.Dismiss()
	require.False(t, banner.Visible())

	banner.Show("again")
	require.True(t, banner.Visible())
}

func TestTagBar(t *testing.T) {
	bar := component.NewTagBarModel()
	require.Contains(t, bar.View(), "No teams")

	bar.SetTags([]roster.TagCount{
		{Key: "forza", Display: "Forza", Count: 3},
		{Key: roster.Untagged, Display: "Untagged", Count: 1},
	}, "forza")

	out := bar.View()
	require.Contains(t, out, "Forza")
	require.Contains(t, out, "(3)")
	require.Contains(t, out, "Untagged")
}

func TestDetailPanelTeam(t *testing.T) {
	mappings := []roster.TeamMapping{{CanonicalName: "forza", Aliases: []string{"frz"}, DisplayName: "Forza"}}
	panel := component.NewDetailPanelModel(nil, mappings)
	require.Empty(t, panel.Render(120, 20))

	panel, _ = panel.Update(command.SelectedPlayerMsg{Player: roster.PlayerRecord{ID: 7, Name: "FRZ Alice", Ping: 40}})
	out := panel.Render(120, 20)
	require.Contains(t, out, "Team")
	require.Contains(t, out, "Forza")

	panel, _ = panel.Update(command.SelectedPlayerMsg{Player: roster.PlayerRecord{ID: 8, Name: "nobody"}})
	require.Contains(t, panel.Render(120, 20), "UNTAGGED")

	panel.Clear()
	require.Empty(t, panel.Render(120, 20))
}
