package skillsheet

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Edit    key.Binding
	Commit  key.Binding
	Leave   key.Binding
	Add     key.Binding
	History key.Binding
	Cancel  key.Binding
	Reload  key.Binding
	Dismiss key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
	Edit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Edit")),
	Commit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Set")),
	Leave:   key.NewBinding(key.WithKeys("esc", "tab", "shift+tab", "left", "right"), key.WithHelp("Esc", "Revert")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "Add")),
	History: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "History")),
	Cancel:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "Cancel")),
	Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Reload")),
	Dismiss: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "OK")),
}
