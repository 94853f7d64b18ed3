// Package game runs a single 2048 session on top of the grid engine:
// move, spawn after every change, terminal check, and high score tracking.
// Persistence and rendering stay with the caller.
package game

import (
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/grid"
)

// initialTiles is the number of tiles spawned on a fresh board.
const initialTiles = 2

// Session holds the state of one game.
type Session struct {
	grid    *grid.Grid
	spawner grid.Spawner

	highScore int
	moves     int
	gameOver  bool
}

// MoveResult reports what happened during a move.
type MoveResult struct {
	Changed      bool
	Spawned      grid.Cell // Zero value when nothing was spawned
	Score        int
	HighScore    int
	NewHighScore bool // Score exceeded the previous high score on this move
	GameOver     bool
}

// New starts a fresh size×size game with two random tiles.
func New(size int, sp grid.Spawner) *Session {
	s := &Session{
		grid:    grid.New(size),
		spawner: sp,
	}
	s.spawnInitial()
	return s
}

// Restore resumes a session from persisted state.
// The score is recomputed from the board; a board with no tiles gets the
// two starting tiles.
func Restore(st State, sp grid.Spawner) (*Session, error) {
	g, err := grid.FromRows(st.Board)
	if err != nil {
		return nil, fmt.Errorf("game: cannot restore board: %w", err)
	}

	s := &Session{
		grid:      g,
		spawner:   sp,
		highScore: st.HighScore,
	}

	if grid.Score(g) == 0 {
		s.spawnInitial()
	}
	s.ObserveHighScore(s.Score())
	s.gameOver = grid.IsTerminal(g)

	return s, nil
}

// spawnInitial places the starting tiles.
func (s *Session) spawnInitial() {
	for range initialTiles {
		s.spawner.Spawn(s.grid)
	}
}

// Move applies a move, spawns one tile if the board changed, and checks for
// game over. A no-op move or a finished game leaves everything untouched.
func (s *Session) Move(dir grid.Direction) MoveResult {
	if s.gameOver {
		return s.result(false)
	}

	if !s.grid.Move(dir) {
		return s.result(false)
	}
	s.moves++

	res := s.result(true)
	res.Spawned, _ = s.spawner.Spawn(s.grid)
	res.Score = s.Score()

	if res.Score > s.highScore {
		s.highScore = res.Score
		res.NewHighScore = true
	}
	res.HighScore = s.highScore

	if grid.IsTerminal(s.grid) {
		s.gameOver = true
	}
	res.GameOver = s.gameOver

	return res
}

func (s *Session) result(changed bool) MoveResult {
	return MoveResult{
		Changed:   changed,
		Score:     s.Score(),
		HighScore: s.highScore,
		GameOver:  s.gameOver,
	}
}

// NewGame clears the board and spawns the starting tiles.
// The high score carries over.
func (s *Session) NewGame() {
	s.grid.Reset()
	s.moves = 0
	s.gameOver = false
	s.spawnInitial()
}

// ObserveHighScore raises the session high score to at least score.
// Used to merge a high score persisted outside the session.
func (s *Session) ObserveHighScore(score int) {
	if score > s.highScore {
		s.highScore = score
	}
}

// Grid returns the live board. Callers must not mutate it.
func (s *Session) Grid() *grid.Grid {
	return s.grid
}

// Score returns the sum of the tiles on the board.
func (s *Session) Score() int {
	return grid.Score(s.grid)
}

// HighScore returns the best score seen by this session.
func (s *Session) HighScore() int {
	return s.highScore
}

// Moves returns the number of board-changing moves in the current game.
func (s *Session) Moves() int {
	return s.moves
}

// GameOver reports whether no move is possible.
func (s *Session) GameOver() bool {
	return s.gameOver
}

// BoardID identifies the board variant, e.g. "4x4". Scores are kept per variant.
func (s *Session) BoardID() string {
	return BoardID(s.grid.Size())
}

// BoardID formats the score partition key for a board size.
func BoardID(size int) string {
	return fmt.Sprintf("%dx%d", size, size)
}
