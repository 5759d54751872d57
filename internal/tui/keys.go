package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send      key.Binding
	Newline   key.Binding
	NextModel key.Binding
	PrevModel key.Binding
	Clear     key.Binding
	Refresh   key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		// Plain Enter sends; Enter with a modifier falls through to the
		// textarea as a newline.
		Send:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Newline:   key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"), key.WithHelp("alt+enter", "newline")),
		NextModel: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next model")),
		PrevModel: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "prev model")),
		Clear:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Refresh:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		ScrollUp:  key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDn:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) helpLine() string {
	line := ""
	for i, b := range []key.Binding{k.Send, k.Newline, k.NextModel, k.Clear, k.Quit} {
		if i > 0 {
			line += " · "
		}
		line += b.Help().Key + " " + b.Help().Desc
	}
	return line
}
