package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/grid"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapDirection(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want grid.Direction
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, grid.Up},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, grid.Down},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, grid.Left},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, grid.Right},
		{"w", runeKey("w"), grid.Up},
		{"s", runeKey("s"), grid.Down},
		{"a", runeKey("a"), grid.Left},
		{"d", runeKey("d"), grid.Right},
		{"k", runeKey("k"), grid.Up},
		{"j", runeKey("j"), grid.Down},
		{"h", runeKey("h"), grid.Left},
		{"l", runeKey("l"), grid.Right},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keys.Direction(tt.msg)
			if !ok {
				t.Fatalf("Direction(%s) not recognized", tt.msg)
			}
			if got != tt.want {
				t.Errorf("Direction(%s) = %v, want %v", tt.msg, got, tt.want)
			}
		})
	}
}

func TestKeyMapNonMoveKeys(t *testing.T) {
	keys := DefaultKeyMap()

	for _, msg := range []tea.KeyMsg{
		runeKey("n"),
		runeKey("e"),
		runeKey("q"),
		runeKey("x"),
		{Type: tea.KeyEnter},
		{Type: tea.KeyCtrlC},
	} {
		if dir, ok := keys.Direction(msg); ok {
			t.Errorf("Direction(%s) = %v, want no move", msg, dir)
		}
	}

	if !key.Matches(runeKey("E"), keys.SaveExit) {
		t.Error("E should save and exit")
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, keys.Quit) {
		t.Error("ctrl+c should quit")
	}
}
