package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the editor's bindings in browse mode
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	HalfDown    key.Binding
	HalfUp      key.Binding
	Toggle      key.Binding
	Expand      key.Binding
	Collapse    key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Search      key.Binding
	NextMatch   key.Binding
	PrevMatch   key.Binding
	ClearSearch key.Binding
	Rename      key.Binding
	Bold        key.Binding
	Remove      key.Binding
	Wrap        key.Binding
	Undo        key.Binding
	Diff        key.Binding
	Save        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("gg", "top")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		HalfDown:    key.NewBinding(key.WithKeys("d", "ctrl+d", "pgdown"), key.WithHelp("d", "half page down")),
		HalfUp:      key.NewBinding(key.WithKeys("u", "ctrl+u", "pgup"), key.WithHelp("u", "half page up")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "fold")),
		Expand:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "expand")),
		Collapse:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "collapse")),
		ExpandAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextMatch:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n/N", "next/prev match")),
		PrevMatch:   key.NewBinding(key.WithKeys("N")),
		ClearSearch: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Rename:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Bold:        key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bold row")),
		Remove:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		Wrap:        key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wrap word")),
		Undo:        key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "undo")),
		Diff:        key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "diff")),
		Save:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save & quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is shown in the footer
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Search, k.Rename, k.Bold, k.Remove, k.Wrap, k.Undo, k.Save, k.Help, k.Quit}
}

// FullHelp is shown after pressing ?
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfDown, k.HalfUp},
		{k.Toggle, k.Expand, k.Collapse, k.ExpandAll, k.CollapseAll},
		{k.Search, k.NextMatch, k.ClearSearch, k.Diff},
		{k.Rename, k.Bold, k.Remove, k.Wrap, k.Undo},
		{k.Save, k.Help, k.Quit},
	}
}
