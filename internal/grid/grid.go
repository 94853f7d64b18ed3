// Package grid implements the 2048 board engine: directional moves, tile
// spawning, terminal-state detection and scoring.
// It has no I/O and no external dependencies so callers can drive it from
// any front end.
package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultSize is the classic board dimension.
	DefaultSize = 4

	// MaxSize is the largest board FromRows accepts.
	MaxSize = 16

	// MaxTileValue is the largest tile. Tiles at this value no longer merge,
	// so a move never overflows a cell.
	MaxTileValue uint32 = 1 << 30
)

var (
	// ErrEmptyGrid is returned when restoring a grid with no rows or columns.
	ErrEmptyGrid = errors.New("grid: empty grid")
	// ErrTooLarge is returned when restoring a grid with more than MaxSize rows.
	ErrTooLarge = errors.New("grid: grid too large")
	// ErrNotSquare is returned when a row length differs from the row count.
	ErrNotSquare = errors.New("grid: grid is not square")
	// ErrInvalidTile is returned for values that are neither 0 nor a power of
	// two in [2, MaxTileValue].
	ErrInvalidTile = errors.New("grid: invalid tile value")
)

// Grid is an N×N board of tile values stored row-major.
// A zero value means the cell is empty.
type Grid struct {
	size  int
	cells []uint32
}

// Cell identifies a board position and the value placed there.
type Cell struct {
	Row   int
	Col   int
	Value uint32
}

// New creates an empty size×size grid.
// Panics if size < 1.
func New(size int) *Grid {
	if size < 1 {
		panic(fmt.Sprintf("grid: invalid size %d", size))
	}
	return &Grid{
		size:  size,
		cells: make([]uint32, size*size),
	}
}

// FromRows builds a grid from a row-major slice of rows, e.g. a grid restored
// from a save file. The input is copied.
func FromRows(rows [][]uint32) (*Grid, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyGrid
	}

	n := len(rows)
	if n > MaxSize {
		return nil, fmt.Errorf("%w: %d rows, max %d", ErrTooLarge, n, MaxSize)
	}
	for r, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrNotSquare, r, len(row), n)
		}
	}

	g := &Grid{size: n, cells: make([]uint32, n*n)}
	for r, row := range rows {
		for c, v := range row {
			if !validTile(v) {
				return nil, fmt.Errorf("%w: %d at (%d, %d)", ErrInvalidTile, v, r, c)
			}
			g.cells[r*n+c] = v
		}
	}
	return g, nil
}

// validTile reports whether v is 0 or a power of two in [2, MaxTileValue].
func validTile(v uint32) bool {
	return v == 0 || (v >= 2 && v <= MaxTileValue && v&(v-1) == 0)
}

// mergeable reports whether two neighbouring values would merge.
func mergeable(a, b uint32) bool {
	return a != 0 && a == b && a < MaxTileValue
}

// Size returns the board dimension.
func (g *Grid) Size() int {
	return g.size
}

// At returns the value at (row, col).
func (g *Grid) At(row, col int) uint32 {
	return g.cells[row*g.size+col]
}

// Set places a value at (row, col).
func (g *Grid) Set(row, col int, v uint32) {
	g.cells[row*g.size+col] = v
}

// Rows returns a deep copy of the board as rows, suitable for serialization.
func (g *Grid) Rows() [][]uint32 {
	rows := make([][]uint32, g.size)
	for r := range g.size {
		rows[r] = make([]uint32, g.size)
		copy(rows[r], g.cells[r*g.size:(r+1)*g.size])
	}
	return rows
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{size: g.size, cells: make([]uint32, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids have the same size and cell values.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.size != other.size {
		return false
	}
	for i, v := range g.cells {
		if other.cells[i] != v {
			return false
		}
	}
	return true
}

// Reset clears every cell.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = 0
	}
}

// EmptyCells returns the coordinates of all empty cells in row-major order.
func (g *Grid) EmptyCells() []Cell {
	var cells []Cell
	for i, v := range g.cells {
		if v == 0 {
			cells = append(cells, Cell{Row: i / g.size, Col: i % g.size})
		}
	}
	return cells
}

// MaxTile returns the highest tile value on the board.
func (g *Grid) MaxTile() uint32 {
	var maxVal uint32
	for _, v := range g.cells {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// String renders the grid as right-aligned rows, mainly for test output.
func (g *Grid) String() string {
	width := len(strconv.FormatUint(uint64(g.MaxTile()), 10))
	var sb strings.Builder
	for r := range g.size {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := range g.size {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%*d", width, g.At(r, c))
		}
	}
	return sb.String()
}

// Score returns the sum of all tile values.
func Score(g *Grid) int {
	total := 0
	for _, v := range g.cells {
		total += int(v)
	}
	return total
}

// CanMove reports whether any move would change the grid: there is an empty
// cell or two mergeable neighbours in a row or column.
func CanMove(g *Grid) bool {
	n := g.size
	for r := range n {
		for c := range n {
			val := g.At(r, c)
			if val == 0 {
				return true
			}
			if c < n-1 && mergeable(val, g.At(r, c+1)) {
				return true
			}
			if r < n-1 && mergeable(val, g.At(r+1, c)) {
				return true
			}
		}
	}
	return false
}

// IsTerminal returns true if no move is possible.
func IsTerminal(g *Grid) bool {
	return !CanMove(g)
}
