package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Toggle key.Binding
	Edit   key.Binding
	Logout key.Binding
	Cancel key.Binding
	Quit   key.Binding
	Exit   key.Binding
}

var defaultKeyMap = keyMap{
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Toggle: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "login/register")),
	Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Logout: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "logout")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Exit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
}

// bindings is a flat help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

var _ help.KeyMap = bindings(nil)

func (k keyMap) formHelp() help.KeyMap {
	return bindings{k.Next, k.Prev, k.Submit, k.Toggle, k.Quit}
}

func (k keyMap) profileHelp() help.KeyMap {
	return bindings{k.Edit, k.Logout, k.Exit}
}

func (k keyMap) editHelp() help.KeyMap {
	return bindings{k.Next, k.Prev, k.Submit, k.Cancel, k.Quit}
}
