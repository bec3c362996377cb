package maze

import "fmt"

// Cell addresses one cell of a Maze. The zero Cell addresses nothing and
// must not be used.
type Cell struct {
	maze *Maze
	key  int
}

// Key returns the cell key (y*width + x).
func (c Cell) Key() int {
	return c.key
}

// Maze returns the maze the cell belongs to.
func (c Cell) Maze() *Maze {
	return c.maze
}

// Position returns the x and y coordinates of the cell.
func (c Cell) Position() (x, y int) {
	return c.maze.Position(c.key)
}

func (c Cell) String() string {
	if c.maze == nil {
		return "Cell(nil)"
	}
	x, y := c.Position()
	return fmt.Sprintf("(%d,%d)", x, y)
}

// HasWall reports whether there is a wall on the dir side of c.
// Boundary sides always have a wall.
func (c Cell) HasWall(dir Direction) bool {
	nKey, ok := c.maze.relativeKey(c.key, dir)
	if !ok {
		return true
	}

	switch dir {
	case North:
		return c.maze.northWalls.Get(c.key)
	case West:
		return c.maze.westWalls.Get(c.key)
	case South:
		return c.maze.northWalls.Get(nKey)
	default:
		return c.maze.westWalls.Get(nKey)
	}
}

// SetWall sets the state of the wall on the dir side of c.
// It fails with ErrFixedWall on a boundary side.
func (c Cell) SetWall(dir Direction, state bool) error {
	nKey, ok := c.maze.relativeKey(c.key, dir)
	if !ok {
		return fmt.Errorf("%w: %s side of %s", ErrFixedWall, dir, c)
	}

	switch dir {
	case North:
		c.maze.northWalls.Set(c.key, state)
	case West:
		c.maze.westWalls.Set(c.key, state)
	case South:
		c.maze.northWalls.Set(nKey, state)
	default:
		c.maze.westWalls.Set(nKey, state)
	}
	return nil
}

// ClearWall removes the wall on the dir side of c.
func (c Cell) ClearWall(dir Direction) error {
	return c.SetWall(dir, false)
}

// TryMove returns the neighbor of c in dir. The second result is false when
// c is on the boundary in that direction.
func (c Cell) TryMove(dir Direction) (Cell, bool) {
	nKey, ok := c.maze.relativeKey(c.key, dir)
	if !ok {
		return Cell{}, false
	}
	return Cell{maze: c.maze, key: nKey}, true
}

// Move is like TryMove but fails when there is no neighbor.
func (c Cell) Move(dir Direction) (Cell, error) {
	n, ok := c.TryMove(dir)
	if !ok {
		return Cell{}, fmt.Errorf("%w: no cell %s of %s", ErrOutOfBounds, dir, c)
	}
	return n, nil
}

// AdjacentDirection returns the direction from c to other. The second result
// is false when the cells are not grid neighbors or belong to different mazes.
func (c Cell) AdjacentDirection(other Cell) (Direction, bool) {
	if c.maze != other.maze {
		return 0, false
	}
	return c.maze.adjacentDirection(c.key, other.key)
}

// SetMutualWall sets the wall separating c and other.
func (c Cell) SetMutualWall(other Cell, state bool) error {
	if c.maze != other.maze {
		return ErrForeignCell
	}
	dir, ok := c.AdjacentDirection(other)
	if !ok {
		return fmt.Errorf("%w: %s and %s", ErrNotAdjacent, c, other)
	}
	return c.SetWall(dir, state)
}

// ClearMutualWall removes the wall separating c and other.
func (c Cell) ClearMutualWall(other Cell) error {
	return c.SetMutualWall(other, false)
}

// IsInactive reports whether c is walled in on all four sides.
func (c Cell) IsInactive() bool {
	for _, dir := range Directions {
		if !c.HasWall(dir) {
			return false
		}
	}
	return true
}

// OpenDirections returns the directions without a wall, in Directions order.
func (c Cell) OpenDirections() []Direction {
	var open []Direction
	for _, dir := range Directions {
		if !c.HasWall(dir) {
			open = append(open, dir)
		}
	}
	return open
}
