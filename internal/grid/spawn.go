package grid

// DefaultSpawn4Prob is the chance a spawned tile is a 4 instead of a 2.
const DefaultSpawn4Prob = 0.10

// RandomSource is the randomness used for spawning.
// *math/rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// Spawner places new tiles on a grid.
type Spawner struct {
	Rand  RandomSource
	Prob4 float64 // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// NewSpawner returns a spawner with the default 90/10 split.
func NewSpawner(r RandomSource) Spawner {
	return Spawner{Rand: r, Prob4: DefaultSpawn4Prob}
}

// Spawn places a 2 or 4 in a uniformly chosen empty cell.
// Returns false without touching the grid when no cell is empty.
func (s Spawner) Spawn(g *Grid) (Cell, bool) {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return Cell{}, false
	}

	cell := empty[s.Rand.Intn(len(empty))]

	cell.Value = 2
	if s.Rand.Float64() < s.Prob4 {
		cell.Value = 4
	}

	g.Set(cell.Row, cell.Col, cell.Value)
	return cell, true
}

// Spawn places a new tile using the default 90/10 split.
func (g *Grid) Spawn(r RandomSource) (Cell, bool) {
	return NewSpawner(r).Spawn(g)
}
