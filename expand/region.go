package expand

import (
	"math/rand"

	"github.com/beka-birhanu/vinom-maze/maze"
)

// unclaimed marks a cell no generator has carved into yet.
const unclaimed = -1

// box is a bounding rectangle, exclusive on every side.
type box struct {
	x1, y1, x2, y2 int
}

// contains reports whether (x, y) lies strictly inside b.
func (b box) contains(x, y int) bool {
	return b.x1 < x && x < b.x2 && b.y1 < y && y < b.y2
}

// regionGenerator is a randomized depth-first carver confined to one box.
// Several generators share a grid, an ownership slice and a random source;
// the orchestrator interleaves them by calling advance in turn.
type regionGenerator struct {
	id     int
	grid   *maze.Maze
	owners []int
	rnd    *rand.Rand
	bounds box
	stack  []int
}

// newRegionGenerator creates an active generator seeded at seed and claims the seed for it.
func newRegionGenerator(id int, grid *maze.Maze, owners []int, rnd *rand.Rand, seed maze.Cell, bounds box) *regionGenerator {
	owners[seed.Key()] = id
	return &regionGenerator{
		id:     id,
		grid:   grid,
		owners: owners,
		rnd:    rnd,
		bounds: bounds,
		stack:  []int{seed.Key()},
	}
}

// exhausted reports whether the generator has nothing left to carve.
func (g *regionGenerator) exhausted() bool {
	return len(g.stack) == 0
}

// advance carves at most one passage. It returns false once the generator is exhausted.
func (g *regionGenerator) advance() bool {
	for len(g.stack) > 0 {
		cell := g.grid.CellByKeyUnchecked(g.stack[len(g.stack)-1])

		offset := g.rnd.Intn(len(maze.Directions))
		for i := range maze.Directions {
			next, ok := cell.TryMove(maze.Directions[(offset+i)%len(maze.Directions)])
			if !ok || !g.inBounds(next) || !next.IsInactive() {
				continue
			}

			// Neighbors are adjacent by construction, so this cannot fail.
			_ = cell.ClearMutualWall(next)
			g.owners[next.Key()] = g.id
			g.stack = append(g.stack, next.Key())
			return true
		}

		g.stack = g.stack[:len(g.stack)-1]
	}
	return false
}

func (g *regionGenerator) inBounds(c maze.Cell) bool {
	x, y := c.Position()
	return g.bounds.contains(x, y)
}

// claimed calls fn for every cell of the box claimed by this generator, row-major.
// Iteration stops when fn returns false.
func (g *regionGenerator) claimed(fn func(maze.Cell) bool) {
	for y := g.bounds.y1 + 1; y < g.bounds.y2; y++ {
		for x := g.bounds.x1 + 1; x < g.bounds.x2; x++ {
			if !g.grid.InBounds(x, y) {
				continue
			}
			c := g.grid.MustCell(x, y)
			if g.owners[c.Key()] != g.id {
				continue
			}
			if !fn(c) {
				return
			}
		}
	}
}
