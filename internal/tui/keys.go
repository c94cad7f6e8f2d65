package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the picker.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Toggle      key.Binding
	Filter      key.Binding
	SelectAll   key.Binding
	UnselectAll key.Binding
	Undo        key.Binding
	Info        key.Binding
	Confirm     key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "pick visible"),
		),
		UnselectAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "unpick visible"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Info: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "relations"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// FilterKeyMap returns the bindings active while typing into the filter.
// Only keys that cannot be filter text stay enabled.
func FilterKeyMap() KeyMap {
	km := DefaultKeyMap()
	km.Up.SetKeys("up")
	km.Down.SetKeys("down")
	km.Toggle.SetEnabled(false)
	km.Filter.SetEnabled(false)
	km.SelectAll.SetEnabled(false)
	km.UnselectAll.SetEnabled(false)
	km.Undo.SetEnabled(false)
	km.Info.SetEnabled(false)
	km.Confirm.SetHelp("enter", "done")
	km.Back.SetHelp("esc", "clear")
	km.Quit.SetKeys("ctrl+c")
	km.Quit.SetHelp("ctrl+c", "quit")
	return km
}
