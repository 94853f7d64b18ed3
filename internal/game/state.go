package game

import "github.com/vovakirdan/tui-2048/internal/grid"

// State is the persisted form of a session.
type State struct {
	Board        [][]uint32 `json:"game_board"`
	CurrentScore int        `json:"current_score"`
	HighScore    int        `json:"high_score"`
}

// EmptyState returns the state of a board with no tiles.
func EmptyState(size, highScore int) State {
	return State{
		Board:     grid.New(size).Rows(),
		HighScore: highScore,
	}
}

// State returns the current session state.
func (s *Session) State() State {
	return State{
		Board:        s.grid.Rows(),
		CurrentScore: s.Score(),
		HighScore:    s.highScore,
	}
}

// PersistState returns the state to save on exit.
// A finished game is saved as an empty board so the next start is a new game.
func (s *Session) PersistState() State {
	if s.gameOver {
		return EmptyState(s.grid.Size(), s.highScore)
	}
	return s.State()
}

// StateType describes where the session is in its lifecycle.
type StateType string

const (
	StatePlaying  StateType = "playing"
	StateGameOver StateType = "game_over"
)

// Snapshot captures session details for display and tests.
type Snapshot struct {
	BoardID   string
	Board     [][]uint32
	Score     int
	HighScore int
	MaxTile   uint32
	Moves     int
	State     StateType
}

// Snapshot returns the current session snapshot.
func (s *Session) Snapshot() Snapshot {
	state := StatePlaying
	if s.gameOver {
		state = StateGameOver
	}

	return Snapshot{
		BoardID:   s.BoardID(),
		Board:     s.grid.Rows(),
		Score:     s.Score(),
		HighScore: s.highScore,
		MaxTile:   s.grid.MaxTile(),
		Moves:     s.moves,
		State:     state,
	}
}
