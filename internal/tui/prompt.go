// Package tui reads a line of review text from the terminal.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrCanceled = errors.New("prompt canceled")

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

type promptModel struct {
	input     textinput.Model
	title     string
	submitted bool
	canceled  bool
}

func newPromptModel(title, placeholder string) *promptModel {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 4096
	input.Width = 60
	input.Focus()

	return &promptModel{input: input, title: title}
}

func (m *promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 4 {
			m.input.Width = msg.Width - 4
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *promptModel) View() string {
	if m.submitted || m.canceled {
		return ""
	}
	s := titleStyle.Render(m.title) + "\n\n"
	s += m.input.View() + "\n\n"
	s += hintStyle.Render("(enter = predict, esc = quit)")
	return s
}

// Value returns the trimmed text once the user pressed enter.
func (m *promptModel) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// ReadLine shows a one-line input and returns what the user typed. An empty
// string means the user submitted blank input.
func ReadLine(in io.Reader, out io.Writer, title, placeholder string) (string, error) {
	model := newPromptModel(title, placeholder)
	p := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		return "", fmt.Errorf("failed to run prompt: %w", err)
	}
	if model.canceled {
		return "", ErrCanceled
	}
	return model.Value(), nil
}
