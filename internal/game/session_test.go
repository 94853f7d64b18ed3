package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/grid"
)

// fixedRand always picks the first empty cell and rolls the same value.
type fixedRand struct {
	roll float64
}

func (f fixedRand) Intn(int) int     { return 0 }
func (f fixedRand) Float64() float64 { return f.roll }

func seeded(seed int64) grid.Spawner {
	return grid.NewSpawner(rand.New(rand.NewSource(seed)))
}

func countTiles(g *grid.Grid) int {
	return g.Size()*g.Size() - len(g.EmptyCells())
}

func TestNewSpawnsTwoTiles(t *testing.T) {
	s := New(4, seeded(42))

	if n := countTiles(s.Grid()); n != 2 {
		t.Errorf("new session has %d tiles, want 2", n)
	}
	if s.Score() < 4 || s.Score() > 8 {
		t.Errorf("new session score = %d, want 4..8", s.Score())
	}
	if s.GameOver() {
		t.Error("new session should not be over")
	}
}

func TestNewIsDeterministic(t *testing.T) {
	a := New(4, seeded(12345))
	b := New(4, seeded(12345))

	if !a.Grid().Equal(b.Grid()) {
		t.Errorf("same seed should produce the same board:\n%v\nvs\n%v", a.Grid(), b.Grid())
	}
}

func TestRestoreRecomputesScore(t *testing.T) {
	st := State{
		Board: [][]uint32{
			{2, 2, 0, 0},
			{0, 4, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		},
		CurrentScore: 999,
		HighScore:    4,
	}

	s, err := Restore(st, seeded(1))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if s.Score() != 8 {
		t.Errorf("restored score = %d, want 8 (recomputed from board)", s.Score())
	}
	if s.HighScore() != 8 {
		t.Errorf("restored high score = %d, want 8", s.HighScore())
	}
	if countTiles(s.Grid()) != 3 {
		t.Error("restoring a board with tiles should not spawn")
	}
}

func TestRestoreEmptyBoardSpawns(t *testing.T) {
	s, err := Restore(EmptyState(4, 500), seeded(1))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if n := countTiles(s.Grid()); n != 2 {
		t.Errorf("restored empty board has %d tiles, want 2", n)
	}
	if s.HighScore() != 500 {
		t.Errorf("high score = %d, want 500", s.HighScore())
	}
}

func TestRestoreInvalidBoard(t *testing.T) {
	tests := []struct {
		name  string
		board [][]uint32
		want  error
	}{
		{"ragged", [][]uint32{{2, 0}, {0}}, grid.ErrNotSquare},
		{"too many rows", make([][]uint32, 200000), grid.ErrTooLarge},
		{"tile above max", [][]uint32{{1 << 31, 0}, {0, 0}}, grid.ErrInvalidTile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(State{Board: tt.board}, seeded(1))
			if !errors.Is(err, tt.want) {
				t.Errorf("Restore error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMoveNoChangeNoSpawn(t *testing.T) {
	s, err := Restore(State{Board: [][]uint32{
		{4, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}}, seeded(1))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	before := s.Grid().Clone()

	res := s.Move(grid.Left)

	if res.Changed {
		t.Error("Move(left) should not change left-aligned tiles")
	}
	if !s.Grid().Equal(before) {
		t.Errorf("no-op move changed the board:\n%v", s.Grid())
	}
	if s.Moves() != 0 {
		t.Errorf("Moves = %d, want 0", s.Moves())
	}
}

func TestMoveSpawnsOnce(t *testing.T) {
	s, err := Restore(State{Board: [][]uint32{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}}, grid.Spawner{Rand: fixedRand{roll: 0.5}, Prob4: 0.1})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	res := s.Move(grid.Left)

	if !res.Changed {
		t.Fatal("Move(left) should merge the pair")
	}
	if countTiles(s.Grid()) != 2 {
		t.Errorf("board has %d tiles, want merged tile plus one spawn", countTiles(s.Grid()))
	}
	// First empty cell after the merge is (0, 1).
	if res.Spawned != (grid.Cell{Row: 0, Col: 1, Value: 2}) {
		t.Errorf("Spawned = %+v, want 2 at (0, 1)", res.Spawned)
	}
	if res.Score != 6 {
		t.Errorf("Score = %d, want 6", res.Score)
	}
	if s.Moves() != 1 {
		t.Errorf("Moves = %d, want 1", s.Moves())
	}
}

func TestMoveReportsNewHighScore(t *testing.T) {
	board := [][]uint32{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	s, _ := Restore(State{Board: board}, seeded(3))
	res := s.Move(grid.Right)
	if !res.NewHighScore {
		t.Error("first scoring move should set a new high score")
	}
	if res.HighScore != res.Score {
		t.Errorf("HighScore = %d, want %d", res.HighScore, res.Score)
	}

	s, _ = Restore(State{Board: board, HighScore: 1000}, seeded(3))
	res = s.Move(grid.Right)
	if res.NewHighScore {
		t.Error("move below the stored high score should not set a new one")
	}
	if res.HighScore != 1000 {
		t.Errorf("HighScore = %d, want 1000", res.HighScore)
	}
}

func TestMoveDetectsGameOver(t *testing.T) {
	// Sliding left leaves (0, 1) empty; a spawned 4 there locks the board.
	s, err := Restore(State{Board: [][]uint32{
		{0, 2},
		{4, 8},
	}, HighScore: 100}, grid.Spawner{Rand: fixedRand{roll: 0}, Prob4: 0.1})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	res := s.Move(grid.Left)
	if !res.Changed {
		t.Fatal("Move(left) should slide the top row")
	}
	if !res.GameOver || !s.GameOver() {
		t.Fatalf("board should be terminal:\n%v", s.Grid())
	}

	before := s.Grid().Clone()
	if res := s.Move(grid.Right); res.Changed {
		t.Error("moves after game over should be ignored")
	}
	if !s.Grid().Equal(before) {
		t.Error("board changed after game over")
	}

	st := s.PersistState()
	if st.CurrentScore != 0 || st.HighScore != 100 {
		t.Errorf("PersistState = %+v, want empty board keeping high score 100", st)
	}
	for _, row := range st.Board {
		for _, v := range row {
			if v != 0 {
				t.Fatalf("PersistState board should be empty, got %v", st.Board)
			}
		}
	}
}

func TestRestoreTerminalBoard(t *testing.T) {
	s, err := Restore(State{Board: [][]uint32{
		{2, 4},
		{4, 2},
	}}, seeded(1))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !s.GameOver() {
		t.Error("restoring a locked board should report game over")
	}
}

func TestNewGameKeepsHighScore(t *testing.T) {
	s, _ := Restore(State{Board: [][]uint32{
		{2, 4},
		{4, 2},
	}, HighScore: 64}, seeded(1))

	s.NewGame()

	if s.GameOver() {
		t.Error("NewGame should clear game over")
	}
	if countTiles(s.Grid()) != 2 {
		t.Errorf("NewGame board has %d tiles, want 2", countTiles(s.Grid()))
	}
	if s.HighScore() != 64 {
		t.Errorf("HighScore = %d, want 64", s.HighScore())
	}
	if s.Moves() != 0 {
		t.Errorf("Moves = %d, want 0", s.Moves())
	}
}

func TestStateRoundTrip(t *testing.T) {
	s := New(4, seeded(9))
	s.ObserveHighScore(2048)

	restored, err := Restore(s.State(), seeded(10))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if !restored.Grid().Equal(s.Grid()) {
		t.Errorf("restored board differs:\n%v\nvs\n%v", restored.Grid(), s.Grid())
	}
	if restored.HighScore() != 2048 {
		t.Errorf("restored high score = %d, want 2048", restored.HighScore())
	}
}

func TestSnapshot(t *testing.T) {
	s, _ := Restore(State{Board: [][]uint32{
		{2, 0, 0},
		{0, 8, 0},
		{0, 0, 0},
	}}, seeded(1))

	snap := s.Snapshot()

	if snap.BoardID != "3x3" {
		t.Errorf("BoardID = %s, want 3x3", snap.BoardID)
	}
	if snap.MaxTile != 8 {
		t.Errorf("MaxTile = %d, want 8", snap.MaxTile)
	}
	if snap.Score != 10 {
		t.Errorf("Score = %d, want 10", snap.Score)
	}
	if snap.State != StatePlaying {
		t.Errorf("State = %s, want playing", snap.State)
	}
}
