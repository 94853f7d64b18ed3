package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagLimit     int
	flagScoresTUI bool
	flagClear     bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [board]",
	Short: "Show high scores for a board size",
	Long: `Display the top finished games for a board, e.g. 4x4.
Without a board argument the configured size is used.

Examples:
  t2048 scores
  t2048 scores 5x5 --limit 20
  t2048 scores --tui
  t2048 scores 4x4 --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores interactively")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores for the board")
}

func runScores(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	boardID := game.BoardID(cfg.Board.Size)
	if len(args) == 1 {
		boardID = args[0]
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(boardID); err != nil {
			return fmt.Errorf("clearing scores: %w", err)
		}
		fmt.Printf("Cleared scores for %s\n", boardID)
		return nil
	}

	if flagScoresTUI {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunScoreboard(store, boardID, width, height); err != nil {
			return fmt.Errorf("running scoreboard: %w", err)
		}
		return nil
	}

	scores, err := store.TopScores(boardID, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", boardID)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No finished games recorded yet.")
	} else {
		fmt.Printf("  %-4s  %-8s  %-8s  %-6s  %s\n", "Rank", "Score", "Max", "Moves", "Date")
		fmt.Printf("  %-4s  %-8s  %-8s  %-6s  %s\n", "----", "-----", "---", "-----", "----")

		for i, entry := range scores {
			dateStr := "-"
			if !entry.CreatedAt.IsZero() {
				dateStr = entry.CreatedAt.Format("2006-01-02 15:04")
			}
			fmt.Printf("  %-4d  %-8d  %-8d  %-6d  %s\n", i+1, entry.Score, entry.MaxTile, entry.Moves, dateStr)
		}
	}

	// The high score also counts unfinished games.
	fmt.Println()
	if highScore, err := store.HighScore(boardID); err == nil && highScore > 0 {
		fmt.Printf("Best: %d\n", highScore)
	}
	return nil
}
