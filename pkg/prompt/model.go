package prompt

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cmbmwifi/cambium-nms-templates/pkg/requirements"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	exampleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	inputStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
)

// inputModel is a single-question Bubble Tea model. Text kinds collect a
// line of input (secrets are masked as they are typed); booleans answer to
// a single y/n keypress. Esc and Ctrl-C cancel.
type inputModel struct {
	def       requirements.InputDefinition
	value     []rune
	done      bool
	cancelled bool
}

func newInputModel(def requirements.InputDefinition) inputModel {
	return inputModel{def: def}
}

func (m inputModel) Init() tea.Cmd {
	return nil
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit

	case tea.KeyEnter:
		m.done = true
		return m, tea.Quit

	case tea.KeyBackspace:
		if len(m.value) > 0 {
			m.value = m.value[:len(m.value)-1]
		}
		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		if m.def.Type == requirements.TypeBoolean {
			switch key.String() {
			case "y", "Y":
				m.value = []rune("true")
				m.done = true
				return m, tea.Quit
			case "n", "N":
				m.value = []rune("false")
				m.done = true
				return m, tea.Quit
			}
			return m, nil
		}
		m.value = append(m.value, key.Runes...)
		return m, nil
	}

	return m, nil
}

func (m inputModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.def.Prompt) + "\n")

	if m.def.HelpText != "" {
		// Help text is rendered verbatim; it is authored content.
		b.WriteString(helpStyle.Render(m.def.HelpText))
		if !strings.HasSuffix(m.def.HelpText, "\n") {
			b.WriteString("\n")
		}
	}
	if m.def.Example != "" {
		b.WriteString(exampleStyle.Render(fmt.Sprintf("example: %s", m.def.Example)) + "\n")
	}

	switch m.def.Type {
	case requirements.TypeBoolean:
		marker := "[y/N]"
		if m.def.Default.String() == "true" {
			marker = "[Y/n]"
		}
		b.WriteString(fmt.Sprintf("\n%s %s\n", m.def.Prompt, marker))

	case requirements.TypeSecret:
		b.WriteString("\n> " + inputStyle.Render(strings.Repeat("*", len(m.value))) + "\n")

	default:
		line := string(m.value)
		if line == "" && m.def.Default != "" {
			line = helpStyle.Render(fmt.Sprintf("(default: %s)", m.def.Default))
		} else {
			line = inputStyle.Render(line)
		}
		b.WriteString("\n> " + line + "\n")
	}

	b.WriteString(helpStyle.Render("\nenter to accept, esc to cancel\n"))
	return b.String()
}

// answer returns the collected raw value.
func (m inputModel) answer() string {
	return string(m.value)
}
