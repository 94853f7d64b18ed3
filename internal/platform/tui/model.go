// Package tui provides the Bubble Tea front end for t2048.
// It maps keys to moves, renders the board and persists scores and state
// through the interfaces below.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/grid"
)

// ScoreStore records high scores and finished games.
type ScoreStore interface {
	HighScore(boardID string) (int, error)
	RecordHighScore(boardID string, score int) error
	SaveScore(boardID string, score, maxTile, moves int) (int64, error)
}

// StateSaver persists the session on exit.
type StateSaver interface {
	Save(st game.State) error
}

// Options configures a Model. Nil Store or States disable that persistence.
type Options struct {
	Store  ScoreStore
	States StateSaver
	Theme  config.ThemeConfig
	Logger *log.Logger
}

// Model is the Bubble Tea model for one 2048 session.
type Model struct {
	session  *game.Session
	store    ScoreStore
	states   StateSaver
	renderer *BoardRenderer
	logger   *log.Logger
	keys     KeyMap
	help     help.Model

	status     string
	width      int
	height     int
	scoreSaved bool // Whether the finished game has been recorded
	quitting   bool
}

// NewModel creates a model for the session. The stored high score, if any,
// is merged into the session.
func NewModel(session *game.Session, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		session:  session,
		store:    opts.Store,
		states:   opts.States,
		renderer: NewBoardRenderer(opts.Theme),
		logger:   logger,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		// A restored board that is already over was recorded when it ended.
		scoreSaved: session.GameOver(),
	}

	if m.store != nil {
		high, err := m.store.HighScore(session.BoardID())
		if err != nil {
			m.warn("could not load high score", err)
		} else {
			session.ObserveHighScore(high)
		}
	}

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.SaveExit):
		m.saveState()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.NewGame):
		m.session.NewGame()
		m.scoreSaved = false
		m.status = "New game"
		return m, nil
	}

	if dir, ok := m.keys.Direction(msg); ok {
		m.move(dir)
	}
	return m, nil
}

// move applies a move and persists scores. Persistence errors are reported
// but never undo the move.
func (m *Model) move(dir grid.Direction) {
	res := m.session.Move(dir)
	if !res.Changed {
		return
	}
	m.status = ""

	if res.NewHighScore && m.store != nil {
		if err := m.store.RecordHighScore(m.session.BoardID(), res.HighScore); err != nil {
			m.warn("could not write high score", err)
		}
	}

	if res.GameOver {
		m.finish()
	}
}

// finish records a finished game once and saves the fresh-start state.
func (m *Model) finish() {
	if m.scoreSaved {
		return
	}
	m.scoreSaved = true

	snap := m.session.Snapshot()
	m.logger.Info("game over",
		"board", snap.BoardID,
		"score", snap.Score,
		"max_tile", snap.MaxTile,
		"moves", snap.Moves,
	)

	if m.store != nil {
		if _, err := m.store.SaveScore(snap.BoardID, snap.Score, int(snap.MaxTile), snap.Moves); err != nil {
			m.warn("could not save score", err)
		}
	}
	m.saveState()
}

// saveState writes the session state, if a saver is configured.
func (m *Model) saveState() {
	if m.states == nil {
		return
	}
	if err := m.states.Save(m.session.PersistState()); err != nil {
		m.logger.Error("could not save game state", "error", err)
		m.status = fmt.Sprintf("Failed to save game state: %v", err)
	}
}

// warn logs a persistence failure and shows it in the status line.
func (m *Model) warn(msg string, err error) {
	m.logger.Warn(msg, "board", m.session.BoardID(), "error", err)
	m.status = fmt.Sprintf("%s: %v", msg, err)
}

// View renders the board, scores, status and help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.session.Snapshot()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("2 0 4 8"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderer.Render(m.session.Grid()), m.width))
	b.WriteString("\n")

	info := fmt.Sprintf("Score: %d   High score: %d   Moves: %d", snap.Score, snap.HighScore, snap.Moves)
	b.WriteString(centerText(infoStyle.Render(info), m.width))
	b.WriteString("\n")

	if snap.State == game.StateGameOver {
		b.WriteString("\n")
		b.WriteString(centerText(gameOverStyle.Render(">> Game Over! <<"), m.width))
		b.WriteString("\n")
		b.WriteString(centerText("n: new game  |  q: quit", m.width))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(centerText(statusStyle.Render(m.status), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render(m.help.View(m.keys)), m.width))

	return b.String()
}

// Session returns the model's session.
func (m Model) Session() *game.Session {
	return m.session
}

// Status returns the current status line.
func (m Model) Status() string {
	return m.status
}

// Run starts the Bubble Tea program for the session.
func Run(session *game.Session, opts Options) error {
	p := tea.NewProgram(
		NewModel(session, opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
