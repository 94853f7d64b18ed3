// Package storage provides persistence for finished games, high scores and
// saved sessions. Scores live in SQLite via the pure-Go modernc.org/sqlite
// driver; the resumable session is a JSON file.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// sqliteTimeLayout is how CURRENT_TIMESTAMP values come back as text.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single finished game.
type ScoreEntry struct {
	ID        int64
	BoardID   string
	Score     int
	MaxTile   int
	Moves     int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := ExpandHome(dbPath)
	if err != nil {
		return nil, err
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			board_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			max_tile INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(board_id, score DESC);

		CREATE TABLE IF NOT EXISTS high_scores (
			board_id TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(boardID string, score, maxTile, moves int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (board_id, score, max_tile, moves) VALUES (?, ?, ?, ?)",
		boardID, score, maxTile, moves,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N finished games for a board.
// Results are ordered by score descending.
func (s *Store) TopScores(boardID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, board_id, score, max_tile, moves, created_at
		 FROM scores
		 WHERE board_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		boardID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.BoardID, &e.Score, &e.MaxTile, &e.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best score for a board.
// The scalar record wins; finished games are the fallback. Returns 0 if
// nothing was recorded.
func (s *Store) HighScore(boardID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(score) FROM (
			SELECT score FROM high_scores WHERE board_id = ?
			UNION ALL
			SELECT score FROM scores WHERE board_id = ?
		)`,
		boardID, boardID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// RecordHighScore stores score as the board's high score unless a higher one
// is already recorded.
func (s *Store) RecordHighScore(boardID string, score int) error {
	_, err := s.db.Exec(
		`INSERT INTO high_scores (board_id, score, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(board_id) DO UPDATE SET
			score = excluded.score,
			updated_at = excluded.updated_at
		 WHERE excluded.score > high_scores.score`,
		boardID, score,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record high score: %w", err)
	}
	return nil
}

// ClearScores deletes all finished games and the high score for a board.
func (s *Store) ClearScores(boardID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM scores WHERE board_id = ?", boardID); err != nil {
		return errors.Join(fmt.Errorf("storage: cannot clear scores: %w", err), tx.Rollback())
	}
	if _, err := tx.Exec("DELETE FROM high_scores WHERE board_id = ?", boardID); err != nil {
		return errors.Join(fmt.Errorf("storage: cannot clear high score: %w", err), tx.Rollback())
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Boards returns every board ID with recorded scores, sorted.
func (s *Store) Boards() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT board_id FROM scores
		 UNION
		 SELECT board_id FROM high_scores
		 ORDER BY board_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query boards: %w", err)
	}
	defer rows.Close()

	var boards []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		boards = append(boards, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return boards, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
