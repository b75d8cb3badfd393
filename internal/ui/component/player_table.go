package component

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/leighmacdonald/roster-tui/internal/roster"
	"github.com/leighmacdonald/roster-tui/internal/ui/command"
	"github.com/leighmacdonald/roster-tui/internal/ui/input"
	"github.com/leighmacdonald/roster-tui/internal/ui/model"
	"github.com/leighmacdonald/roster-tui/internal/ui/styles"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"
)

type playerTableCol int

const (
	colID playerTableCol = iota
	colName
	colPing
)

type playerTableColSize int

const (
	colIDSize   playerTableColSize = 6
	colPingSize playerTableColSize = 8
	// colNameMin is the smallest width the name column is squeezed to.
	colNameMin playerTableColSize = 12
)

const (
	pingWarn = 100
	pingBad  = 200
)

// PlayerTableModel renders the members of the active group and tracks the selected player.
type PlayerTableModel struct {
	id         string
	table      *table.Table
	players    []roster.PlayerRecord
	selectedID int
	selected   bool
	viewState  model.ViewState
}

func NewPlayerTableModel() *PlayerTableModel {
	return &PlayerTableModel{
		id:    zone.NewPrefix(),
		table: NewUnstyledTable(),
	}
}

func (m *PlayerTableModel) Init() tea.Cmd {
	return nil
}

// SetPlayers replaces the rows. The selection is kept when the selected player is still present.
func (m *PlayerTableModel) SetPlayers(players []roster.PlayerRecord) {
	m.players = players
	if m.selected && m.currentRowIndex() < 0 {
		m.selected = false
	}
}

// Selected returns the currently selected player.
func (m *PlayerTableModel) Selected() (roster.PlayerRecord, bool) {
	idx := m.currentRowIndex()
	if idx < 0 {
		return roster.PlayerRecord{}, false
	}

	return m.players[idx], true
}

func (m *PlayerTableModel) Update(msg tea.Msg) (*PlayerTableModel, tea.Cmd) {
	switch msg := msg.(type) {
	case model.ViewState:
		m.viewState = msg
	case tea.MouseMsg:
		switch msg.Button { //nolint:exhaustive
		case tea.MouseButtonWheelUp:
			return m, m.moveSelection(input.Up)
		case tea.MouseButtonWheelDown:
			return m, m.moveSelection(input.Down)
		default:
			if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
				return m, nil
			}

			for _, player := range m.players {
				if zone.Get(m.id + strconv.Itoa(player.ID)).InBounds(msg) {
					m.selectedID = player.ID
					m.selected = true

					return m, command.SelectPlayer(player)
				}
			}
		}
	case tea.KeyMsg:
		if m.viewState.KeyZone != model.KZplayerTable {
			break
		}

		switch {
		case key.Matches(msg, input.Default.Up):
			return m, m.moveSelection(input.Up)
		case key.Matches(msg, input.Default.Down):
			return m, m.moveSelection(input.Down)
		}
	case command.SelectedPlayerMsg:
		m.selectedID = msg.Player.ID
		m.selected = true
	}

	return m, nil
}

func (m *PlayerTableModel) moveSelection(dir input.Direction) tea.Cmd {
	if len(m.players) == 0 {
		return nil
	}

	currentRow := m.currentRowIndex()
	next := currentRow

	switch dir { //nolint:exhaustive
	case input.Up:
		if currentRow < 0 {
			next = len(m.players) - 1
		} else if currentRow > 0 {
			next = currentRow - 1
		}
	case input.Down:
		if currentRow < 0 {
			next = 0
		} else if currentRow < len(m.players)-1 {
			next = currentRow + 1
		}
	default:
		return nil
	}

	if next == currentRow {
		return nil
	}

	m.selectedID = m.players[next].ID
	m.selected = true

	return command.SelectPlayer(m.players[next])
}

func (m *PlayerTableModel) currentRowIndex() int {
	if !m.selected {
		return -1
	}

	for rowIdx, player := range m.players {
		if player.ID == m.selectedID {
			return rowIdx
		}
	}

	return -1
}

func (m *PlayerTableModel) nameWidth(width int) int {
	return max(int(colNameMin), width-int(colIDSize)-int(colPingSize)-2)
}

// Render draws the table into the given height. Rows beyond the height are scrolled so that the
// selected row stays visible.
func (m *PlayerTableModel) Render(width int, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	nameWidth := m.nameWidth(width)
	// Header takes one row.
	visible := max(1, height-1)
	offset := 0
	if idx := m.currentRowIndex(); idx >= visible {
		offset = idx - visible + 1
	}

	end := min(len(m.players), offset+visible)
	rows := make([][]string, 0, end-offset)
	for _, player := range m.players[offset:end] {
		rows = append(rows, []string{
			zone.Mark(m.id+strconv.Itoa(player.ID), strconv.Itoa(player.ID)),
			truncate.StringWithTail(player.Name, uint(nameWidth), "…"), //nolint:gosec
			fmt.Sprintf("%d ms", player.Ping),
		})
	}

	m.table.
		Headers("ID", "Name", "Ping").
		Width(width).
		Rows(rows...).
		StyleFunc(func(row int, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.HeaderStyle.Width(m.colWidth(playerTableCol(col), nameWidth))
			}

			player := m.players[offset+row]
			width := m.colWidth(playerTableCol(col), nameWidth)

			if m.selected && player.ID == m.selectedID {
				return styles.SelectedCellStyle.Width(width)
			}

			var style lipgloss.Style
			if row%2 == 0 {
				style = styles.PlayerTableRow
			} else {
				style = styles.PlayerTableRowOdd
			}

			if playerTableCol(col) == colPing {
				style = pingStyle(player.Ping)
			}

			return style.Width(width)
		})

	return m.table.Render()
}

func (m *PlayerTableModel) colWidth(col playerTableCol, nameWidth int) int {
	switch col {
	case colID:
		return int(colIDSize)
	case colPing:
		return int(colPingSize)
	case colName:
		fallthrough
	default:
		return nameWidth
	}
}

func pingStyle(ping int) lipgloss.Style {
	switch {
	case ping >= pingBad:
		return styles.PingBad
	case ping >= pingWarn:
		return styles.PingWarn
	default:
		return styles.PingGood
	}
}
