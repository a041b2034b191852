package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the list-mode bindings. While the search box has focus only
// Blur, Quit and the box's own editing keys apply.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Bottom   key.Binding
	Top      key.Binding
	Search   key.Binding
	Blur     key.Binding
	LoadMore key.Binding
	Retry    key.Binding
	Debug    key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
	Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Top:      key.NewBinding(key.WithKeys("g", "home", "t"), key.WithHelp("g/t", "top")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Blur:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done/clear")),
	LoadMore: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "load more")),
	Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
	Debug:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "debug")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Top, k.Search, k.Blur, k.LoadMore, k.Debug, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Search, k.Blur, k.LoadMore, k.Retry, k.Debug, k.Quit},
	}
}
