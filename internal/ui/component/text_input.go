package component

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leighmacdonald/roster-tui/internal/license"
	"github.com/leighmacdonald/roster-tui/internal/ui/styles"
)

var errLicenseKeyInvalid = errors.New("invalid license key")

type InputValidator interface {
	Validate(string) error
}

func NewValidatingTextInputModel(label string, value string, placeholder string, validators ...InputValidator) *ValidatingTextInputModel {
	input := NewTextInputModel(value, placeholder)

	if len(validators) > 0 {
		input.Validate = func(s string) error {
			for _, validator := range validators {
				if err := validator.Validate(s); err != nil {
					return err
				}
			}

			return nil
		}
	}

	return &ValidatingTextInputModel{Input: input, Label: label}
}

type ValidatingTextInputModel struct {
	Label string
	Input textinput.Model
}

func (m *ValidatingTextInputModel) Init() tea.Cmd {
	return nil
}

func (m *ValidatingTextInputModel) Update(msg tea.Msg) (*ValidatingTextInputModel, tea.Cmd) {
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)

	return m, cmd
}

func (m *ValidatingTextInputModel) View() string {
	var errRow string
	if m.Input.Err != nil {
		errRow = lipgloss.NewStyle().Foreground(styles.Red).Render("Validation Error: " + m.Input.Err.Error())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.HelpStyle.Render(m.Label+": "),
		lipgloss.JoinVertical(lipgloss.Top, m.Input.View(), errRow))
}

func (m *ValidatingTextInputModel) Value() string {
	return m.Input.Value()
}

// Valid reports whether the current value passes all validators.
func (m *ValidatingTextInputModel) Valid() bool {
	return m.Input.Err == nil
}

func (m *ValidatingTextInputModel) Reset() {
	m.Input.Reset()
	m.Input.Err = nil
}

func (m *ValidatingTextInputModel) Focus() tea.Cmd {
	m.Input.PromptStyle = styles.FocusedStyle
	m.Input.TextStyle = styles.FocusedStyle

	return m.Input.Focus()
}

func (m *ValidatingTextInputModel) Blur() {
	m.Input.PromptStyle = styles.NoStyle
	m.Input.TextStyle = styles.NoStyle
	m.Input.Blur()
}

// LicenseKeyValidator accepts keys made of letters, digits and dashes. Lower case input is accepted
// since keys are upper-cased before use. An empty value is accepted so the field can be cleared.
type LicenseKeyValidator struct{}

func (v LicenseKeyValidator) Validate(value string) error {
	for _, chr := range license.NormalizeKey(value) {
		switch {
		case chr >= 'A' && chr <= 'Z', chr >= '0' && chr <= '9', chr == '-':
		default:
			return fmt.Errorf("%w: unexpected character %q", errLicenseKeyInvalid, chr)
		}
	}

	return nil
}
