// Package searchbox is the catalog's search field: a text input whose every
// change is reported upward as a QueryChanged message. It does no debouncing
// of its own.
package searchbox

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Placeholder is shown while the field is empty.
const Placeholder = "Product's name..."

// QueryChanged carries the raw field value after a change.
type QueryChanged struct {
	Query string
}

// Model wraps a textinput.
type Model struct {
	input textinput.Model
}

// New creates an unfocused search box.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = Placeholder
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.CharLimit = 100
	ti.ShowSuggestions = true
	return Model{input: ti}
}

// Focus gives the box keyboard focus.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur drops keyboard focus.
func (m *Model) Blur() {
	m.input.Blur()
}

// Focused reports whether the box has focus.
func (m Model) Focused() bool {
	return m.input.Focused()
}

// Value returns the current text.
func (m Model) Value() string {
	return m.input.Value()
}

// SetValue replaces the text without emitting QueryChanged. The owner uses
// it to keep the box in step with its own query.
func (m *Model) SetValue(v string) {
	m.input.SetValue(v)
	m.input.CursorEnd()
}

// SetWidth sets the visible width of the text area.
func (m *Model) SetWidth(w int) {
	m.input.Width = max(w-lipgloss.Width(m.input.Prompt)-1, 10)
}

// SetSuggestions offers past queries for tab completion.
func (m *Model) SetSuggestions(s []string) {
	m.input.SetSuggestions(s)
}

// Update forwards msg to the input and reports a QueryChanged when the
// value differs afterwards.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	old := m.input.Value()

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if v := m.input.Value(); v != old {
		changed := func() tea.Msg { return QueryChanged{Query: v} }
		return m, tea.Batch(cmd, changed)
	}
	return m, cmd
}

// View renders the box.
func (m Model) View() string {
	return m.input.View()
}
