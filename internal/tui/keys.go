package tui

import "github.com/charmbracelet/bubbles/key"

// AppKeyMap holds the bindings handled by the app itself.
type AppKeyMap struct {
	Quit    key.Binding
	Help    key.Binding
	Back    key.Binding
	Reviews key.Binding
	Refresh key.Binding
}

// DefaultAppKeyMap returns the default bindings.
func DefaultAppKeyMap() AppKeyMap {
	return AppKeyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Reviews: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "view reviews")),
		Refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
	}
}

// helpKeys combines the app bindings with the active page's bindings.
type helpKeys struct {
	app   AppKeyMap
	page  Page
	short []key.Binding
	full  [][]key.Binding
}

func (h helpKeys) ShortHelp() []key.Binding {
	out := append([]key.Binding{}, h.short...)
	if h.page == PageDetail {
		out = append(out, h.app.Reviews)
	}
	if h.page != PageProducts {
		out = append(out, h.app.Back)
	}
	return append(out, h.app.Help, h.app.Quit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	app := []key.Binding{h.app.Refresh, h.app.Help, h.app.Quit}
	if h.page != PageProducts {
		app = append([]key.Binding{h.app.Back}, app...)
	}
	if h.page == PageDetail {
		app = append([]key.Binding{h.app.Reviews}, app...)
	}
	return append(append([][]key.Binding{}, h.full...), app)
}
