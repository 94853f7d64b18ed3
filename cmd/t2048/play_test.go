package main

import (
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/grid"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

type fakeLoader struct {
	state game.State
	err   error
}

func (f fakeLoader) Load() (game.State, error) { return f.state, f.err }

func savedGame(size int) game.State {
	st := game.EmptyState(size, 300)
	st.Board[0][0] = 64
	st.Board[0][1] = 8
	return st
}

func TestLoadSession(t *testing.T) {
	tests := []struct {
		name      string
		cfgSize   int
		loader    fakeLoader
		opts      resumeOptions
		wantBoard string
		resumed   bool
	}{
		{
			name:      "resumes saved game",
			cfgSize:   4,
			loader:    fakeLoader{state: savedGame(4)},
			wantBoard: "4x4",
			resumed:   true,
		},
		{
			name:      "resumes saved size without --size",
			cfgSize:   4,
			loader:    fakeLoader{state: savedGame(5)},
			wantBoard: "5x5",
			resumed:   true,
		},
		{
			name:      "explicit size mismatch starts new game",
			cfgSize:   6,
			loader:    fakeLoader{state: savedGame(4)},
			opts:      resumeOptions{SizeSet: true},
			wantBoard: "6x6",
		},
		{
			name:      "explicit matching size resumes",
			cfgSize:   4,
			loader:    fakeLoader{state: savedGame(4)},
			opts:      resumeOptions{SizeSet: true},
			wantBoard: "4x4",
			resumed:   true,
		},
		{
			name:      "new flag ignores saved game",
			cfgSize:   4,
			loader:    fakeLoader{state: savedGame(4)},
			opts:      resumeOptions{Fresh: true},
			wantBoard: "4x4",
		},
		{
			name:      "no saved game",
			cfgSize:   5,
			loader:    fakeLoader{err: storage.ErrNoState},
			wantBoard: "5x5",
		},
		{
			name:      "unreadable saved game",
			cfgSize:   4,
			loader:    fakeLoader{err: errors.New("disk on fire")},
			wantBoard: "4x4",
		},
		{
			name:      "oversized saved board",
			cfgSize:   4,
			loader:    fakeLoader{state: game.EmptyState(config.MaxBoardSize+1, 0)},
			wantBoard: "4x4",
		},
		{
			name:      "too many saved rows",
			cfgSize:   4,
			loader:    fakeLoader{state: game.State{Board: make([][]uint32, 200000)}},
			wantBoard: "4x4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Board.Size = tt.cfgSize
			sp := grid.Spawner{Rand: rand.New(rand.NewSource(1)), Prob4: 0.1}

			s := loadSession(cfg, tt.loader, tt.opts, sp, log.New(io.Discard))
			if got := s.BoardID(); got != tt.wantBoard {
				t.Errorf("BoardID() = %s, want %s", got, tt.wantBoard)
			}
			if resumed := s.Grid().At(0, 0) == 64; resumed != tt.resumed {
				t.Errorf("resumed = %v, want %v\n%v", resumed, tt.resumed, s.Grid())
			}
		})
	}
}

func TestLoadSessionInvalidKeepsHighScore(t *testing.T) {
	cfg := config.Default()
	st := savedGame(4)
	st.Board[3][3] = 3
	sp := grid.Spawner{Rand: rand.New(rand.NewSource(1)), Prob4: 0.1}

	s := loadSession(cfg, fakeLoader{state: st}, resumeOptions{}, sp, log.New(io.Discard))
	if s.HighScore() != 300 {
		t.Errorf("HighScore() = %d, want 300 from the saved game", s.HighScore())
	}
	if s.Grid().At(0, 0) == 64 {
		t.Error("invalid saved board should not be resumed")
	}
}
