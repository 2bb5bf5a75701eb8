package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func typeText(m *promptModel, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestPromptModel_Submit(t *testing.T) {
	m := newPromptModel("Enter a review", "This was a very bad steak")
	typeText(m, "  great pasta ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.True(t, m.submitted)
	assert.False(t, m.canceled)
	assert.Equal(t, "great pasta", m.Value())
	assert.Empty(t, m.View())
}

func TestPromptModel_Cancel(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m := newPromptModel("Enter a review", "")
		typeText(m, "abc")

		m.Update(tea.KeyMsg{Type: key})
		assert.True(t, m.canceled)
		assert.False(t, m.submitted)
	}
}

func TestPromptModel_View(t *testing.T) {
	m := newPromptModel("Enter a review", "placeholder")
	view := m.View()
	assert.Contains(t, view, "Enter a review")
	assert.Contains(t, view, "esc = quit")
}

func TestPromptModel_ResizeKeepsInput(t *testing.T) {
	m := newPromptModel("t", "")
	typeText(m, "ok")
	m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	assert.Equal(t, 26, m.input.Width)
	assert.Equal(t, "ok", m.Value())
}
