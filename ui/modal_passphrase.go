package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"poassist/config"
)

// PassphraseModal asks for the SSH key passphrase at start-up and keeps
// asking until the credential store opens or the user gives up.
type PassphraseModal struct {
	cfg       *config.Config
	input     textinput.Model
	err       string
	width     int
	height    int
	unlocked  bool
	cancelled bool
}

// NewPassphraseInput creates a masked textinput for passphrase entry.
func NewPassphraseInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Width = 50
	input.CharLimit = 200
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return input
}

func NewPassphraseModal(cfg *config.Config) PassphraseModal {
	input := NewPassphraseInput("Enter passphrase")
	input.Focus()

	return PassphraseModal{
		cfg:   cfg,
		input: input,
	}
}

func (m PassphraseModal) Init() tea.Cmd {
	return textinput.Blink
}

func (m PassphraseModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			passphrase := m.input.Value()
			if passphrase == "" {
				m.err = "Passphrase cannot be empty"
				return m, nil
			}
			if err := m.cfg.LoadCredentials(passphrase); err != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[Passphrase] Failed to open credential store: %v", err)
				}
				m.err = "Incorrect passphrase. Please try again."
				m.input.SetValue("")
				return m, nil
			}
			m.unlocked = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PassphraseModal) View() string {
	if m.width < 20 || m.height < 10 {
		return "Terminal too small"
	}

	width := 70
	lines := centeredLines(fmt.Sprintf("The SSH key is encrypted with a passphrase.\nKey: %s\nPlease enter the passphrase:", m.cfg.SSHKeyPath), width)
	lines = append(lines, "", lipgloss.PlaceHorizontal(width, lipgloss.Center, m.input.View()))
	if m.err != "" {
		lines = append(lines, "", lipgloss.PlaceHorizontal(width, lipgloss.Center, ErrorStyle.Bold(true).Render("⚠ "+m.err)))
	}

	return RenderThreeSectionModal("SSH Key Passphrase Required", lines, "Enter Continue  |  Esc Cancel", ModalTypeInfo, width, m.width, m.height)
}

// Unlocked reports whether the credential store was opened.
func (m PassphraseModal) Unlocked() bool {
	return m.unlocked && !m.cancelled
}
