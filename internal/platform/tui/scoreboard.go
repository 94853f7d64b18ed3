package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show board list sidebar
	sidebarWidth       = 14  // Width of board list sidebar
	maxScores          = 100 // Max scores to load
)

// ScoreLister reads finished games from the score store.
type ScoreLister interface {
	Boards() ([]string, error)
	TopScores(boardID string, limit int) ([]storage.ScoreEntry, error)
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextBoard key.Binding
	PrevBoard key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextBoard, k.PrevBoard, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextBoard, k.PrevBoard, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		NextBoard: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/→", "next board"),
		),
		PrevBoard: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab/←", "prev board"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the score table.
type ScoreboardModel struct {
	boards      []string // Board IDs with recorded scores
	boardCursor int
	store       ScoreLister
	scores      []storage.ScoreEntry
	loadErr     error
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewScoreboardModel creates a scoreboard starting at the given board, or at
// the first recorded board if it has no scores.
func NewScoreboardModel(store ScoreLister, boardID string, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:       store,
		keys:        DefaultScoreboardKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	boards, err := store.Boards()
	if err != nil {
		m.loadErr = err
	}
	m.boards = boards
	for i, b := range m.boards {
		if b == boardID {
			m.boardCursor = i
		}
	}

	m.table = m.createTable()
	if len(m.boards) > 0 {
		m.loadScores(m.boards[m.boardCursor])
	}

	return m
}

// createTable creates a new table sized to the window.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Max tile", Width: 9},
		{Title: "Moves", Width: 7},
		{Title: "Date", Width: 14},
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadScores loads scores for the given board.
func (m *ScoreboardModel) loadScores(boardID string) {
	scores, err := m.store.TopScores(boardID, maxScores)
	if err != nil {
		m.loadErr = err
		m.scores = nil
	} else {
		m.loadErr = nil
		m.scores = scores
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		date := "-"
		if !s.CreatedAt.IsZero() {
			date = s.CreatedAt.Format("Jan 02 15:04")
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.MaxTile),
			fmt.Sprintf("%d", s.Moves),
			date,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextBoard):
			if len(m.boards) > 0 {
				m.boardCursor = (m.boardCursor + 1) % len(m.boards)
				m.loadScores(m.boards[m.boardCursor])
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevBoard):
			if len(m.boards) > 0 {
				m.boardCursor = (m.boardCursor - 1 + len(m.boards)) % len(m.boards)
				m.loadScores(m.boards[m.boardCursor])
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "HIGH SCORES"
	if board := m.CurrentBoard(); board != "" {
		title = fmt.Sprintf("HIGH SCORES - %s", board)
	}
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

// renderWideLayout renders the table with a board list sidebar.
func (m ScoreboardModel) renderWideLayout() string {
	var sidebar strings.Builder
	sidebar.WriteString("Boards\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, board := range m.boards {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.boardCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + board))
		sidebar.WriteString("\n")
	}

	sidebarRendered := panelStyle.Width(sidebarWidth).Render(sidebar.String())
	tableRendered := panelStyle.Render(m.renderTableContent())

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebarRendered, "  ", tableRendered)
}

// renderNarrowLayout renders the current board name above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	if board := m.CurrentBoard(); board != "" {
		b.WriteString(centerText(fmt.Sprintf("< %s >", board), m.width))
		b.WriteString("\n\n")
	}
	b.WriteString(centerText(panelStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or an empty/error message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.loadErr != nil {
		return emptyStyle.Render(fmt.Sprintf("Could not load scores:\n%v", m.loadErr))
	}
	if len(m.scores) == 0 {
		return emptyStyle.Render("No scores recorded yet.\nFinish a game to set a high score!")
	}

	return m.table.View()
}

// CurrentBoard returns the selected board ID, or empty if none are recorded.
func (m ScoreboardModel) CurrentBoard() string {
	if len(m.boards) == 0 {
		return ""
	}
	return m.boards[m.boardCursor]
}

// Scores returns the loaded scores for the current board.
func (m ScoreboardModel) Scores() []storage.ScoreEntry {
	return m.scores
}

// RunScoreboard runs the scoreboard screen.
func RunScoreboard(store ScoreLister, boardID string, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(store, boardID, width, height),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
