package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/grid"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagNewGame   bool
	flagStatePath string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048 in this terminal",
	Long: `Start playing. The last unfinished game is resumed unless --new is given.

Controls:
  Arrows/WASD/hjkl - Slide tiles
  N                - New game
  E                - Save and exit
  Q/Ctrl+C         - Quit (also saves)
  ?                - Toggle help

Logs go to t2048.log next to the saved game so they never draw over the board.

Examples:
  t2048 play
  t2048 play --new
  t2048 play --new --size 5 --seed 42
  t2048 play --state ./game_state.json`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNewGame, "new", false, "Start a new game instead of resuming")
	playCmd.Flags().StringVar(&flagStatePath, "state", "", "Path to the saved game (overrides config)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagStatePath != "" {
		cfg.Storage.StatePath = flagStatePath
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("play needs an interactive terminal")
	}

	states, err := storage.NewStateFile(cfg.Storage.StatePath)
	if err != nil {
		return err
	}

	logOut, closeLog := openLogFile(filepath.Join(filepath.Dir(states.Path()), "t2048.log"))
	defer closeLog()
	logger := newLogger(logOut, "t2048", cfg)

	session := loadSession(cfg, states, resumeOptions{
		Fresh:   flagNewGame,
		SizeSet: flagSize != 0,
	}, newSpawner(cfg), logger)

	opts := tui.Options{
		States: states,
		Theme:  cfg.Theme,
		Logger: logger,
	}
	if store := openStore(cfg, logger); store != nil {
		defer store.Close()
		opts.Store = store
	}

	if err := tui.Run(session, opts); err != nil {
		return fmt.Errorf("running game: %w", err)
	}

	fmt.Printf(" > Current score : %d\n", session.Score())
	fmt.Printf(" > High score    : %d\n", session.HighScore())
	if session.GameOver() {
		fmt.Println(" >> Game Over! <<")
	}
	return nil
}

// stateLoader reads the saved game.
type stateLoader interface {
	Load() (game.State, error)
}

// resumeOptions carries the play flags that affect resuming.
type resumeOptions struct {
	Fresh   bool // --new
	SizeSet bool // --size given explicitly
}

// loadSession resumes the saved game, or starts a new one when there is
// none, --new is set, the saved game is unreadable, or its board does not
// match an explicit --size.
func loadSession(cfg config.Config, states stateLoader, opts resumeOptions, sp grid.Spawner, logger *log.Logger) *game.Session {
	size := cfg.Board.Size
	if opts.Fresh {
		return game.New(size, sp)
	}

	st, err := states.Load()
	if errors.Is(err, storage.ErrNoState) {
		return game.New(size, sp)
	}
	if err != nil {
		logger.Warn("could not load saved game, starting a new one", "error", err)
		return game.New(size, sp)
	}

	saved := len(st.Board)
	if saved < config.MinBoardSize || saved > config.MaxBoardSize {
		logger.Warn("saved game has an unsupported board size, starting a new one", "size", saved)
		return game.New(size, sp)
	}
	if opts.SizeSet && saved != size {
		logger.Info("saved game is a different size, starting a new one",
			"saved", game.BoardID(saved), "board", game.BoardID(size))
		return game.New(size, sp)
	}

	session, err := game.Restore(st, sp)
	if err != nil {
		logger.Warn("saved game is invalid, starting a new one", "error", err)
		s := game.New(size, sp)
		if saved == size {
			s.ObserveHighScore(st.HighScore)
		}
		return s
	}

	logger.Info("resumed saved game", "board", session.BoardID(), "score", session.Score())
	return session
}

// openLogFile opens path for appending. Logging is discarded if it cannot be opened.
func openLogFile(path string) (io.Writer, func()) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}
