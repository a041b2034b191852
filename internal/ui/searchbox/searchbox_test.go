package searchbox

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeRunes(m Model, s string) (Model, []tea.Cmd) {
	var cmds []tea.Cmd
	for _, r := range s {
		var cmd tea.Cmd
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		cmds = append(cmds, cmd)
	}
	return m, cmds
}

// changes runs cmd (and any batch it holds) and collects QueryChanged values.
func changes(cmd tea.Cmd) []string {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case QueryChanged:
		return []string{msg.Query}
	case tea.BatchMsg:
		var out []string
		for _, c := range msg {
			out = append(out, changes(c)...)
		}
		return out
	}
	return nil
}

func TestEveryKeystrokeEmits(t *testing.T) {
	m := New()
	m.Focus()

	m, cmds := typeRunes(m, "pho")
	var got []string
	for _, c := range cmds {
		got = append(got, changes(c)...)
	}

	want := []string{"p", "ph", "pho"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
	if m.Value() != "pho" {
		t.Errorf("Value() = %q", m.Value())
	}
}

func TestBackspaceEmits(t *testing.T) {
	m := New()
	m.Focus()
	m.SetValue("phone")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := changes(cmd); len(got) != 1 || got[0] != "phon" {
		t.Errorf("backspace changes = %v", got)
	}
}

func TestUnfocusedIgnoresKeys(t *testing.T) {
	m := New()
	m, cmds := typeRunes(m, "abc")
	for _, c := range cmds {
		if got := changes(c); len(got) != 0 {
			t.Errorf("unfocused box emitted %v", got)
		}
	}
	if m.Value() != "" {
		t.Errorf("unfocused box accepted input: %q", m.Value())
	}
}

func TestSetValueIsSilent(t *testing.T) {
	m := New()
	m.SetValue("laptop")
	if m.Value() != "laptop" {
		t.Errorf("Value() = %q", m.Value())
	}
}

func TestNonChangingKeyDoesNotEmit(t *testing.T) {
	m := New()
	m.Focus()
	m.SetValue("abc")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := changes(cmd); len(got) != 0 {
		t.Errorf("cursor move emitted %v", got)
	}
}

func TestPlaceholderShown(t *testing.T) {
	m := New()
	m.SetWidth(60)
	if !strings.Contains(m.View(), "roduct's name") {
		t.Errorf("placeholder missing from view: %q", m.View())
	}
}

func TestFocusBlur(t *testing.T) {
	m := New()
	if m.Focused() {
		t.Error("new box should not be focused")
	}
	m.Focus()
	if !m.Focused() {
		t.Error("Focus() did not focus")
	}
	m.Blur()
	if m.Focused() {
		t.Error("Blur() did not blur")
	}
}
