package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/grid"
)

// firstCellRand always picks the first empty cell; roll decides 2 or 4.
type firstCellRand struct{ roll float64 }

func (r firstCellRand) Intn(int) int     { return 0 }
func (r firstCellRand) Float64() float64 { return r.roll }

type savedScore struct {
	board                 string
	score, maxTile, moves int
}

type fakeStore struct {
	high      int
	highErr   error
	recordErr error
	recorded  []int
	saved     []savedScore
}

func (s *fakeStore) HighScore(string) (int, error) {
	return s.high, s.highErr
}

func (s *fakeStore) RecordHighScore(_ string, score int) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	s.recorded = append(s.recorded, score)
	return nil
}

func (s *fakeStore) SaveScore(board string, score, maxTile, moves int) (int64, error) {
	s.saved = append(s.saved, savedScore{board, score, maxTile, moves})
	return int64(len(s.saved)), nil
}

type fakeStates struct {
	saved []game.State
	err   error
}

func (f *fakeStates) Save(st game.State) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, st)
	return nil
}

func restore(t *testing.T, board [][]uint32, roll float64) *game.Session {
	t.Helper()
	sp := grid.Spawner{Rand: firstCellRand{roll: roll}, Prob4: 0.5}
	s, err := game.Restore(game.State{Board: board}, sp)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	return s
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func fourByFour() [][]uint32 {
	return [][]uint32{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
}

func TestModelMoveRecordsHighScore(t *testing.T) {
	store := &fakeStore{}
	m := NewModel(restore(t, fourByFour(), 0.9), Options{Store: store, Theme: config.Default().Theme})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})

	rows := m.Session().Grid().Rows()
	// 2+2 merged at the left edge, a 2 spawned in the first empty cell.
	if rows[0][0] != 4 || rows[0][1] != 2 {
		t.Errorf("row 0 = %v, want [4 2 0 0]", rows[0])
	}
	if m.Session().Score() != 6 {
		t.Errorf("Score = %d, want 6", m.Session().Score())
	}
	if len(store.recorded) != 1 || store.recorded[0] != 6 {
		t.Errorf("recorded high scores = %v, want [6]", store.recorded)
	}
}

func TestModelNoOpMoveDoesNothing(t *testing.T) {
	store := &fakeStore{}
	m := NewModel(restore(t, fourByFour(), 0.9), Options{Store: store})

	// Tiles already sit on the top edge with nothing to merge vertically.
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})

	if m.Session().Moves() != 0 {
		t.Errorf("Moves = %d, want 0 after a no-op", m.Session().Moves())
	}
	if len(store.recorded) != 0 {
		t.Errorf("no-op move recorded a high score: %v", store.recorded)
	}
}

func TestModelMergesStoredHighScore(t *testing.T) {
	store := &fakeStore{high: 500}
	m := NewModel(restore(t, fourByFour(), 0.9), Options{Store: store})

	if m.Session().HighScore() != 500 {
		t.Errorf("HighScore = %d, want 500 from the store", m.Session().HighScore())
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if len(store.recorded) != 0 {
		t.Errorf("score below the stored high score was recorded: %v", store.recorded)
	}
}

func TestModelHighScoreLoadError(t *testing.T) {
	store := &fakeStore{highErr: errors.New("disk gone")}
	m := NewModel(restore(t, fourByFour(), 0.9), Options{Store: store})

	if !strings.Contains(m.Status(), "disk gone") {
		t.Errorf("Status = %q, want the load error", m.Status())
	}
}

func TestModelRecordErrorKeepsMove(t *testing.T) {
	store := &fakeStore{recordErr: errors.New("read-only")}
	m := NewModel(restore(t, fourByFour(), 0.9), Options{Store: store})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})

	if m.Session().Score() != 6 {
		t.Errorf("Score = %d, want 6; a failed write must not undo the move", m.Session().Score())
	}
	if !strings.Contains(m.Status(), "read-only") {
		t.Errorf("Status = %q, want the write error", m.Status())
	}
}

func TestModelGameOverSavesOnce(t *testing.T) {
	store := &fakeStore{}
	states := &fakeStates{}
	board := [][]uint32{
		{0, 2},
		{4, 8},
	}
	// roll 0 spawns a 4 at (0,1), leaving [[2 4] [4 8]] with no moves.
	m := NewModel(restore(t, board, 0), Options{Store: store, States: states})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})

	if !m.Session().GameOver() {
		t.Fatalf("game should be over, board %v", m.Session().Grid().Rows())
	}
	want := savedScore{board: "2x2", score: 18, maxTile: 8, moves: 1}
	if len(store.saved) != 1 || store.saved[0] != want {
		t.Fatalf("saved scores = %+v, want [%+v]", store.saved, want)
	}
	if len(states.saved) != 1 || states.saved[0].CurrentScore != 0 {
		t.Fatalf("saved states = %+v, want one empty board", states.saved)
	}
	if !strings.Contains(m.View(), "Game Over") {
		t.Error("View should announce game over")
	}

	// Further input does not record the game again.
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if len(store.saved) != 1 {
		t.Errorf("score saved %d times, want once", len(store.saved))
	}

	m, _ = press(t, m, runeKey("n"))
	if m.Session().GameOver() {
		t.Error("new game should not be over")
	}
	if m.Session().HighScore() != 18 {
		t.Errorf("HighScore = %d, want 18 carried into the new game", m.Session().HighScore())
	}
}

func TestModelQuitSavesState(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"e", runeKey("e")},
		{"q", runeKey("q")},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			states := &fakeStates{}
			m := NewModel(restore(t, fourByFour(), 0.9), Options{States: states})

			m, cmd := press(t, m, tt.msg)
			if cmd == nil {
				t.Fatal("expected a quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
			if len(states.saved) != 1 {
				t.Fatalf("state saved %d times, want once", len(states.saved))
			}
			if got := states.saved[0]; got.CurrentScore != 4 || got.Board[0][0] != 2 {
				t.Errorf("saved state = %+v, want the current board", got)
			}
			if m.View() != "" {
				t.Error("View should be empty after quitting")
			}
		})
	}
}

func TestModelQuitSaveErrorStillQuits(t *testing.T) {
	states := &fakeStates{err: errors.New("no space left")}
	m := NewModel(restore(t, fourByFour(), 0.9), Options{States: states})

	m, cmd := press(t, m, runeKey("e"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if !strings.Contains(m.Status(), "no space left") {
		t.Errorf("Status = %q, want the save error", m.Status())
	}
}

func TestModelViewShowsScores(t *testing.T) {
	m := NewModel(restore(t, fourByFour(), 0.9), Options{Store: &fakeStore{high: 128}})
	m, _ = press(t, m, runeKey("?"))

	view := m.View()
	for _, want := range []string{"Score: 4", "High score: 128", "new game"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}
