package tui

import "github.com/charmbracelet/bubbles/key"

type reviewKeys struct {
	Up       key.Binding
	Down     key.Binding
	Resample key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newReviewKeys() reviewKeys {
	return reviewKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Resample: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new sample")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k reviewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Resample, k.Help, k.Quit}
}

func (k reviewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Resample, k.Help, k.Quit}}
}
