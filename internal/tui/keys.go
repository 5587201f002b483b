package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down      key.Binding
	Toggle        key.Binding
	Delete        key.Binding
	Add           key.Binding
	SwitchFocus   key.Binding
	Blur          key.Binding
	Submit        key.Binding
	FilterAll     key.Binding
	FilterPending key.Binding
	FilterDone    key.Binding
	CycleFilter   key.Binding
	Refresh       key.Binding
	Dismiss       key.Binding
	Help          key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:        key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Delete:        key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Add:           key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		SwitchFocus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		Blur:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to list")),
		Submit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add todo")),
		FilterAll:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterPending: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "pending")),
		FilterDone:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		CycleFilter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next filter")),
		Refresh:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Dismiss:       key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "ok")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// listHelp and formHelp implement help.KeyMap for each focus.
type listHelp struct{ k keyMap }

func (h listHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Toggle, h.k.Delete, h.k.Add, h.k.CycleFilter, h.k.Help, h.k.Quit}
}

func (h listHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Up, h.k.Down, h.k.Toggle, h.k.Delete},
		{h.k.FilterAll, h.k.FilterPending, h.k.FilterDone, h.k.CycleFilter},
		{h.k.Add, h.k.SwitchFocus, h.k.Refresh, h.k.Quit},
	}
}

type formHelp struct{ k keyMap }

func (h formHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Submit, h.k.Blur, h.k.SwitchFocus}
}

func (h formHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }
