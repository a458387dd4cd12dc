package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open     key.Binding
	Close    key.Binding
	Left     key.Binding
	Right    key.Binding
	Auto     key.Binding
	Up       key.Binding
	Down     key.Binding
	RoomPrev key.Binding
	RoomNext key.Binding
	Photo    key.Binding
	Retry    key.Binding
	Refresh  key.Binding
	More     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open photos")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close photos")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous photo")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next photo")),
		Auto:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-advance")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "previous room")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "next room")),
		RoomPrev: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "room photo back")),
		RoomNext: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "room photo forward")),
		Photo:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "open photo n")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Refresh:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "refresh prices")),
		More:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more amenities")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Left, k.Right, k.Auto, k.Refresh, k.Retry, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Photo, k.Close, k.Left, k.Right, k.Auto},
		{k.Up, k.Down, k.RoomPrev, k.RoomNext, k.More},
		{k.Refresh, k.Retry, k.Quit},
	}
}
