package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Accent = lipgloss.Color("#f4722b")

	Black       = lipgloss.Color("#111111")
	Gray        = lipgloss.Color("#3e3e3e")
	GrayDark    = lipgloss.Color("#2f3030")
	GrayDarkAlt = lipgloss.Color("#0f0f0f")
	White       = lipgloss.Color("#cccccc")
	Whiter      = lipgloss.Color("#aaaaaa")
	Red         = lipgloss.Color("#B8383B")
	Blu         = lipgloss.Color("#5885A2")

	ColourStrange = lipgloss.Color("#cf6a32")
	ColourLimited = lipgloss.Color("#ffd700")
	ColourGenuine = lipgloss.Color("#4d7455")
	ColourUnusual = lipgloss.Color("#8650ac")
	ColourVintage = lipgloss.Color("#476291")

	ContainerBorder      = lipgloss.DoubleBorder()
	ContainerStyle       = lipgloss.NewStyle().Border(ContainerBorder).BorderForeground(Gray)
	ContainerStyleActive = lipgloss.NewStyle().Border(ContainerBorder).BorderForeground(Blu)

	HeaderContainerStyle  = lipgloss.NewStyle().Align(lipgloss.Center)
	ContentContainerStyle = lipgloss.NewStyle().Align(lipgloss.Center)
	FooterContainerStyle  = lipgloss.NewStyle().Align(lipgloss.Center)

	FocusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	BlurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	CursorStyle  = FocusedStyle
	NoStyle      = lipgloss.NewStyle()
	HelpStyle    = BlurredStyle

	LoginTitle  = lipgloss.NewStyle().Foreground(Accent).Bold(true).Padding(0, 0, 1, 0)
	LoginBox    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Gray).Padding(1, 3)
	LoginError  = lipgloss.NewStyle().Foreground(Red).Bold(true)
	LoginSaved  = lipgloss.NewStyle().Foreground(ColourGenuine)
	LoginButton = lipgloss.NewStyle().Foreground(Accent).Bold(true)

	TagActive   = lipgloss.NewStyle().Foreground(Black).Background(Blu).Bold(true).Padding(0, 1)
	TagInactive = lipgloss.NewStyle().Foreground(ColourVintage).Bold(true).Padding(0, 1)
	TagUntagged = lipgloss.NewStyle().Foreground(Gray).Bold(true).Padding(0, 1)
	TagCount    = lipgloss.NewStyle().Foreground(ColourLimited)

	HeaderStyle       = lipgloss.NewStyle().Foreground(Blu).Bold(true).Align(lipgloss.Left).PaddingLeft(0)
	SelectedCellStyle = lipgloss.NewStyle().Padding(0).Bold(true).Background(Blu).Foreground(Black)
	PlayerTableRow    = lipgloss.NewStyle().Foreground(White)
	PlayerTableRowOdd = lipgloss.NewStyle().Foreground(Whiter)
	PingGood          = lipgloss.NewStyle().Foreground(ColourGenuine)
	PingWarn          = lipgloss.NewStyle().Foreground(ColourLimited)
	PingBad           = lipgloss.NewStyle().Foreground(Red)

	SearchPrompt = lipgloss.NewStyle().Foreground(ColourUnusual).Bold(true)
	SpinnerStyle = lipgloss.NewStyle().Foreground(Accent)

	Banner     = lipgloss.NewStyle().Foreground(Black).Background(Red).Bold(true).Padding(0, 1)
	BannerHint = lipgloss.NewStyle().Foreground(Black).Background(Red).Padding(0, 1)

	PanelLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Align(lipgloss.Right).Width(14)
	PanelValue = lipgloss.NewStyle().Width(60)

	StatusHostname = lipgloss.NewStyle().Foreground(ColourStrange).PaddingRight(2).PaddingLeft(1).Bold(true)
	StatusCounts   = lipgloss.NewStyle().Foreground(ColourGenuine).PaddingRight(2).PaddingLeft(1).Bold(true)
	StatusFetched  = lipgloss.NewStyle().Foreground(Gray).PaddingRight(2).PaddingLeft(1)
	StatusError    = lipgloss.NewStyle().Foreground(Red).Align(lipgloss.Right).Bold(true).PaddingRight(2)
	StatusMessage  = lipgloss.NewStyle().Foreground(ColourGenuine).Align(lipgloss.Right).Bold(true).PaddingRight(2)
	StatusHelp     = lipgloss.NewStyle().Foreground(Gray).Bold(true).Align(lipgloss.Center)
	StatusVersion  = lipgloss.NewStyle().Foreground(ColourGenuine).Bold(true).Align(lipgloss.Center)
	StatusLicense  = lipgloss.NewStyle().Foreground(ColourUnusual).PaddingLeft(1).PaddingRight(1)

	InfoMessage = lipgloss.NewStyle().Align(lipgloss.Center).Padding(1).Foreground(Whiter)

	HelpBox = lipgloss.NewStyle().Padding(3)

	IconPlayers = "👥"
	IconInfo    = "💡"
	IconEmpty   = "🍕"
	IconError   = "🛑"
)

func DetailRow(label string, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		PanelLabel.Render(label+" "),
		PanelValue.Render(value))
}

// WrapX will wrap a centered string with the supplied character up to the length specified.
func WrapX(width int, value string, character string) string {
	all := max(0, width-lipgloss.Width(value))

	return strings.Repeat(character, all/2) + value + strings.Repeat(character, all/2)
}

func TitleBorder(border lipgloss.Border, width int, title string) lipgloss.Border {
	border.Top = WrapX(width, "║"+title+"║", border.Top)

	return border
}
