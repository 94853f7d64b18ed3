package grid

import (
	"fmt"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists all valid directions.
var Directions = []Direction{Up, Down, Left, Right}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// ParseDirection parses "up", "down", "left", "right" or their first letter.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return 0, fmt.Errorf("grid: unknown direction %q", s)
}

// Move slides and merges every line toward dir, mutating the grid in place.
// Returns true iff the settled grid differs from the grid before the move.
func (g *Grid) Move(dir Direction) bool {
	if g.size == 0 || !dir.Valid() {
		return false
	}

	before := g.Clone()
	line := make([]uint32, g.size)

	for i := range g.size {
		for k := range g.size {
			line[k] = g.cells[g.lineIndex(dir, i, k)]
		}
		settleLine(line)
		for k := range g.size {
			g.cells[g.lineIndex(dir, i, k)] = line[k]
		}
	}

	return !g.Equal(before)
}

// lineIndex maps the k-th position of line i, counted from the target end of
// dir, to a cell offset. Rows are lines for Left/Right, columns for Up/Down.
func (g *Grid) lineIndex(dir Direction, i, k int) int {
	n := g.size
	switch dir {
	case Left:
		return i*n + k
	case Right:
		return i*n + (n - 1 - k)
	case Up:
		return k*n + i
	default: // Down
		return (n-1-k)*n + i
	}
}

// settleLine compacts, merges and re-compacts a line toward index 0.
func settleLine(line []uint32) {
	compactLine(line)
	mergeLine(line)
	compactLine(line)
}

// compactLine moves nonzero values to the front, keeping their order.
func compactLine(line []uint32) {
	write := 0
	for _, v := range line {
		if v != 0 {
			line[write] = v
			write++
		}
	}
	for ; write < len(line); write++ {
		line[write] = 0
	}
}

// mergeLine doubles the front tile of each adjacent equal pair and clears the
// other, scanning once from the front. A cleared tile is zero, so it cannot
// take part in a second merge. Tiles at MaxTileValue stay put.
func mergeLine(line []uint32) {
	for k := 0; k < len(line)-1; k++ {
		if mergeable(line[k], line[k+1]) {
			line[k] *= 2
			line[k+1] = 0
		}
	}
}
