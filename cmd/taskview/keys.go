package main

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of the task table.
type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Search       key.Binding
	Filters      key.Binding
	ResetFilters key.Binding
	Columns      key.Binding
	Toggle       key.Binding
	MoveLeft     key.Binding
	MoveRight    key.Binding
	LoadMore     key.Binding
	Reload       key.Binding
	Dismiss      key.Binding
	Back         key.Binding
	Confirm      key.Binding
	Quit         key.Binding
}

var defaultKeys = keyMap{
	Up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Filters:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filters")),
	ResetFilters: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset filters")),
	Columns:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "columns")),
	Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	MoveLeft:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move left")),
	MoveRight:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move right")),
	LoadMore:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
	Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Dismiss:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss error")),
	Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Confirm:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
