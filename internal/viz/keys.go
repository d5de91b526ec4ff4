package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start    key.Binding
	Stop     key.Binding
	Generate key.Binding
	Sorted   key.Binding
	Faster   key.Binding
	Slower   key.Binding
	Smaller  key.Binding
	Larger   key.Binding
	Next     key.Binding
	Prev     key.Binding
	Target   key.Binding
	Theme    key.Binding
	Help     key.Binding
	Quit     key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Generate, k.Faster, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Next, k.Prev},
		{k.Generate, k.Sorted, k.Smaller, k.Larger},
		{k.Faster, k.Slower, k.Target, k.Theme},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Start: key.NewBinding(
		key.WithKeys("enter", "s"),
		key.WithHelp("enter/s", "start"),
	),
	Stop: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "stop"),
	),
	Generate: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "new array"),
	),
	Sorted: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "sorted input"),
	),
	Faster: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "faster"),
	),
	Slower: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "slower"),
	),
	Smaller: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "fewer bars"),
	),
	Larger: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "more bars"),
	),
	Next: key.NewBinding(
		key.WithKeys("down", "j", "tab"),
		key.WithHelp("↓/j", "next algorithm"),
	),
	Prev: key.NewBinding(
		key.WithKeys("up", "k", "shift+tab"),
		key.WithHelp("↑/k", "previous algorithm"),
	),
	Target: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "search target"),
	),
	Theme: key.NewBinding(
		key.WithKeys("T"),
		key.WithHelp("T", "theme"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}
