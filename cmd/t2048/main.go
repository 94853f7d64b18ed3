// t2048 is the 2048 sliding-tile puzzle for the terminal.
//
// Usage:
//
//	t2048 play               - Play in this terminal (resumes the saved game)
//	t2048 serve              - Start SSH server for remote play
//	t2048 api                - Start the HTTP API
//	t2048 scores [board]     - Show high scores for a board size
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.t2048, ./configs)
//	--db <path>         - Scores database (default: ~/.t2048/scores.db)
//	--seed <value>      - RNG seed for reproducible spawns
//	--size <n>          - Board size (default: 4)
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/grid"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagSize     int
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - Slide and merge tiles in your terminal",
	Long: `t2048 is the 2048 sliding-tile puzzle for the terminal.

Slide the tiles with the arrow keys; equal tiles merge into their sum.
The game ends when the board is full and no neighbours match.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  api      - Start the HTTP API
  scores   - View high scores

Examples:
  t2048 play
  t2048 play --new --size 5
  t2048 serve --ssh :2222
  t2048 api --addr :8080
  t2048 scores 4x4`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().IntVar(&flagSize, "size", 0, "Board size (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadConfig loads the config file and applies global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}

	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagSize != 0 {
		cfg.Board.Size = flagSize
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger creates a logger at the configured level.
func newLogger(w io.Writer, prefix string, cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// openStore opens the scores database. Failure is logged and play continues
// without score keeping.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", cfg.Storage.DBPath, "error", err)
		return nil
	}
	return store
}

// newSpawner builds a spawner from --seed and the configured odds.
func newSpawner(cfg config.Config) grid.Spawner {
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return grid.Spawner{
		Rand:  rand.New(rand.NewSource(seed)),
		Prob4: cfg.Board.Spawn4Prob,
	}
}
