package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the screen's keybindings.
type KeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Enter     key.Binding
	Toggle    key.Binding
	Cancel    key.Binding
	Refresh   key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Confirm   key.Binding
	Decline   key.Binding
	Quit      key.Binding
	QuitList  key.Binding
}

// DefaultKeyMap returns default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Enter:     key.NewBinding(key.WithKeys("enter")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle completed")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel edit")),
		Refresh:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Confirm:   key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Decline:   key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		QuitList:  key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// formHelp is shown while a form field has focus.
func (k KeyMap) formHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Toggle, k.Cancel, k.Refresh, k.Quit}
}

// listHelp is shown while the table has focus.
func (k KeyMap) listHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Edit, k.Delete, k.Refresh, k.QuitList}
}
