// Package keymap holds the TUI key bindings. KeyMap and Hints both satisfy
// help.KeyMap so they can be rendered with bubbles/help.
package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var (
	_ help.KeyMap = (*KeyMap)(nil)
	_ help.KeyMap = Hints(nil)
)

// KeyMap defines the key bindings shared by the views.
type KeyMap struct {
	Quit    key.Binding
	Help    key.Binding
	Back    key.Binding
	Submit  key.Binding
	Up      key.Binding
	Down    key.Binding
	Actions key.Binding
	Edit    key.Binding
	Reload  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:    bind("quit", "q", "ctrl+c"),
		Help:    bind("help", "?"),
		Back:    bind("back", "esc"),
		Submit:  bind("submit", "enter"),
		Up:      bind("up", "up", "k"),
		Down:    bind("down", "down", "j"),
		Actions: bind("actions", "enter"),
		Edit:    bind("new", "n"),
		Reload:  bind("reload", "r"),
	}
}

var arrows = strings.NewReplacer("up", "↑", "down", "↓")

// bind labels a binding with its first key, or "↑/k" style when an arrow
// key has a letter alias.
func bind(desc string, keys ...string) key.Binding {
	label := keys[0]
	if len(keys) > 1 && label != arrows.Replace(label) {
		label = arrows.Replace(label) + "/" + keys[1]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// Hints is a flat list of bindings shown on one line.
type Hints []key.Binding

// ShortHelp returns the hints as one row.
func (h Hints) ShortHelp() []key.Binding { return h }

// FullHelp returns the hints as a single column.
func (h Hints) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

// Typing lists the keys that matter while an input has focus.
func (k *KeyMap) Typing() Hints {
	return Hints{k.Submit, k.Back}
}

// Browsing lists the keys that matter while results are shown.
func (k *KeyMap) Browsing() Hints {
	return Hints{k.Edit, k.Up, k.Down, k.Actions, k.Back}
}

// ShortHelp returns the bindings shown in the compact help line.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Back, k.Quit}
}

// FullHelp returns all bindings grouped into columns.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Actions},
		{k.Submit, k.Edit, k.Reload},
		{k.Back, k.Help, k.Quit},
	}
}
