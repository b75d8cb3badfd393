package component

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leighmacdonald/roster-tui/internal/config"
	"github.com/leighmacdonald/roster-tui/internal/roster"
	"github.com/leighmacdonald/roster-tui/internal/ui/command"
	"github.com/leighmacdonald/roster-tui/internal/ui/styles"
	"github.com/leighmacdonald/steamid/v4/steamid"
)

// DetailPanelModel shows the identifiers and profile links of the selected player.
type DetailPanelModel struct {
	links    []config.UserLink
	mappings []roster.TeamMapping
	player   roster.PlayerRecord
	selected bool
	country  string
	viewport viewport.Model
}

func NewDetailPanelModel(links []config.UserLink, mappings []roster.TeamMapping) *DetailPanelModel {
	return &DetailPanelModel{
		links:    links,
		mappings: mappings,
		viewport: viewport.New(1, 1),
	}
}

func (m *DetailPanelModel) Init() tea.Cmd {
	return nil
}

func (m *DetailPanelModel) Update(msg tea.Msg) (*DetailPanelModel, tea.Cmd) {
	switch msg := msg.(type) {
	case config.Config:
		m.links = msg.Links
	case command.SelectedPlayerMsg:
		if !m.selected || m.player.Endpoint != msg.Player.Endpoint {
			m.country = ""
		}
		m.player = msg.Player
		m.selected = true
	case command.GeoMsg:
		if m.selected && msg.Endpoint == m.player.Endpoint {
			if msg.Err != nil {
				m.country = "Unknown"
			} else {
				m.country = msg.Record.Name()
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

// Clear drops the selection, used when the selected player is no longer listed.
func (m *DetailPanelModel) Clear() {
	m.player = roster.PlayerRecord{}
	m.selected = false
	m.country = ""
}

func (m *DetailPanelModel) Render(width int, height int) string {
	if !m.selected || width <= 0 || height <= 0 {
		return ""
	}

	rows := []string{
		styles.DetailRow("ID", strconv.Itoa(m.player.ID)),
		styles.DetailRow("Name", m.player.Name),
		styles.DetailRow("Team", roster.DisplayName(roster.Tag(m.player.Name, m.mappings), m.mappings)),
		styles.DetailRow("Ping", strconv.Itoa(m.player.Ping)+" ms"),
	}

	if m.player.Endpoint != "" {
		rows = append(rows, styles.DetailRow("Endpoint", m.player.Endpoint))
	}

	if m.country != "" {
		rows = append(rows, styles.DetailRow("Country", m.country))
	}

	for _, ident := range m.player.Identifiers {
		kind, value, found := strings.Cut(ident, ":")
		if !found {
			continue
		}

		rows = append(rows, styles.DetailRow(kind, value))
	}

	if sid, ok := SteamID(m.player); ok {
		rows = append(rows, styles.DetailRow("Steam Profile", "https://steamcommunity.com/profiles/"+sid.String()))
		for _, link := range m.links {
			rows = append(rows, styles.DetailRow(link.Name, link.Generate(sid)))
		}
	}

	if discordID, ok := m.player.Identifier("discord"); ok {
		rows = append(rows, styles.DetailRow("Discord", "https://discord.com/users/"+discordID))
	}

	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Top, rows...))

	return m.viewport.View()
}

// SteamID decodes the hex encoded steam identifier reported by the server, eg: steam:110000112345678.
func SteamID(player roster.PlayerRecord) (steamid.SteamID, bool) {
	var invalid steamid.SteamID

	hex, found := player.Identifier("steam")
	if !found {
		return invalid, false
	}

	value, errParse := strconv.ParseUint(hex, 16, 64)
	if errParse != nil {
		return invalid, false
	}

	sid := steamid.New(strconv.FormatUint(value, 10))
	if !sid.Valid() {
		return invalid, false
	}

	return sid, true
}
