package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/grid"
)

// Tile layout constants
const (
	minCellWidth = 6 // Fits "2048" with one column of padding each side
	cellHeight   = 3
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// BoardRenderer draws a grid as colored tiles.
type BoardRenderer struct {
	theme config.ThemeConfig
	cache map[uint32]lipgloss.Style
}

// NewBoardRenderer creates a renderer for the given theme.
func NewBoardRenderer(theme config.ThemeConfig) *BoardRenderer {
	return &BoardRenderer{
		theme: theme,
		cache: make(map[uint32]lipgloss.Style),
	}
}

// tileStyle returns the style for a tile value, building it on first use.
func (r *BoardRenderer) tileStyle(v uint32, width int) lipgloss.Style {
	style, ok := r.cache[v]
	if !ok {
		style = lipgloss.NewStyle().
			Bold(v != 0).
			Align(lipgloss.Center, lipgloss.Center).
			Background(lipgloss.Color(r.theme.TileColor(v))).
			Foreground(lipgloss.Color(r.theme.TextColor(v)))
		r.cache[v] = style
	}
	return style.Width(width).Height(cellHeight)
}

// Render returns the board as a bordered block of tiles.
func (r *BoardRenderer) Render(g *grid.Grid) string {
	width := cellWidth(g.MaxTile())

	rows := make([]string, g.Size())
	for row := range g.Size() {
		cells := make([]string, g.Size())
		for col := range g.Size() {
			v := g.At(row, col)
			label := ""
			if v != 0 {
				label = strconv.FormatUint(uint64(v), 10)
			}
			cells[col] = r.tileStyle(v, width).Render(label)
		}
		rows[row] = lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}

	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// cellWidth widens tiles once values outgrow four digits.
func cellWidth(maxTile uint32) int {
	w := len(strconv.FormatUint(uint64(maxTile), 10)) + 2
	if w < minCellWidth {
		return minCellWidth
	}
	return w
}

// centerText horizontally centers a (possibly multi-line) block within the given width.
func centerText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
