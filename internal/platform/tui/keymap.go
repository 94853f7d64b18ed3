package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/grid"
)

// KeyMap defines the key bindings for the board screen.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NewGame  key.Binding
	SaveExit key.Binding
	Quit     key.Binding
	Help     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.SaveExit, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.NewGame, k.SaveExit, k.Quit, k.Help},
	}
}

// DefaultKeyMap returns default key bindings: arrows, WASD and vim keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d/l", "right"),
		),
		NewGame: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new game"),
		),
		SaveExit: key.NewBinding(
			key.WithKeys("e", "E"),
			key.WithHelp("e", "save & exit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// Direction translates a key message to a move direction.
// Returns false if the key is not a move key.
func (k KeyMap) Direction(msg tea.KeyMsg) (grid.Direction, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return grid.Up, true
	case key.Matches(msg, k.Down):
		return grid.Down, true
	case key.Matches(msg, k.Left):
		return grid.Left, true
	case key.Matches(msg, k.Right):
		return grid.Right, true
	}
	return 0, false
}
