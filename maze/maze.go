/*
Package maze provides the grid model shared by every maze algorithm in this
module.

A Maze stores, per cell, one flag for the wall on its north side and one for
the wall on its west side. The south wall of a cell is the north wall of the
cell below it and the east wall is the west wall of the cell to its right, so
every interior wall is stored exactly once. Walls on the outer boundary are
implicit: they are always present and can never be changed.

Cells are lightweight values addressing a maze by key (y*width + x). They
carry no storage of their own; mutating walls through a Cell mutates the
owning Maze.
*/
package maze

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze/bitgrid"
)

var (
	ErrInvalidDimensions = errors.New("maze: width and height must be at least 1")
	ErrOutOfBounds       = errors.New("maze: position out of bounds")
	ErrFixedWall         = errors.New("maze: boundary wall cannot be changed")
	ErrNotAdjacent       = errors.New("maze: cells are not adjacent")
	ErrForeignCell       = errors.New("maze: cell belongs to another maze")
	ErrCorruptRecord     = errors.New("maze: corrupt record")
)

// Maze is a rectangular grid of cells separated by walls, with a start and an end cell.
type Maze struct {
	width      int
	height     int
	northWalls *bitgrid.Grid
	westWalls  *bitgrid.Grid
	startKey   int
	endKey     int
}

// New creates a width x height maze with every wall present.
// Start and end both point at the top-left cell.
func New(width, height int) (*Maze, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, height)
	}

	northWalls, err := bitgrid.New(width*height, true)
	if err != nil {
		return nil, err
	}
	westWalls, err := bitgrid.New(width*height, true)
	if err != nil {
		return nil, err
	}

	return &Maze{
		width:      width,
		height:     height,
		northWalls: northWalls,
		westWalls:  westWalls,
	}, nil
}

// Clone returns a deep copy of m. Start and end point at the same positions in the copy.
func (m *Maze) Clone() *Maze {
	return &Maze{
		width:      m.width,
		height:     m.height,
		northWalls: m.northWalls.Clone(),
		westWalls:  m.westWalls.Clone(),
		startKey:   m.startKey,
		endKey:     m.endKey,
	}
}

// Width returns the number of columns.
func (m *Maze) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m *Maze) Height() int {
	return m.height
}

// Size returns the number of cells.
func (m *Maze) Size() int {
	return m.width * m.height
}

// InBounds reports whether (x, y) is a cell of m.
func (m *Maze) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

// Key returns the key of (x, y).
func (m *Maze) Key(x, y int) (int, error) {
	if !m.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, m.width, m.height)
	}
	return y*m.width + x, nil
}

// Position returns the (x, y) position of key.
func (m *Maze) Position(key int) (x, y int) {
	return key % m.width, key / m.width
}

// Cell returns the cell at (x, y).
func (m *Maze) Cell(x, y int) (Cell, error) {
	key, err := m.Key(x, y)
	if err != nil {
		return Cell{}, err
	}
	return Cell{maze: m, key: key}, nil
}

// MustCell is like Cell but panics if (x, y) is out of bounds.
// It is meant for loops whose bounds already come from the maze.
func (m *Maze) MustCell(x, y int) Cell {
	c, err := m.Cell(x, y)
	if err != nil {
		panic(err)
	}
	return c
}

// CellByKey returns the cell addressed by key.
func (m *Maze) CellByKey(key int) (Cell, error) {
	if key < 0 || key >= m.Size() {
		return Cell{}, fmt.Errorf("%w: key %d in %dx%d", ErrOutOfBounds, key, m.width, m.height)
	}
	return Cell{maze: m, key: key}, nil
}

// Start returns the start cell.
func (m *Maze) Start() Cell {
	return Cell{maze: m, key: m.startKey}
}

// End returns the end cell.
func (m *Maze) End() Cell {
	return Cell{maze: m, key: m.endKey}
}

// SetStart marks c as the start cell.
func (m *Maze) SetStart(c Cell) error {
	if c.maze != m {
		return ErrForeignCell
	}
	m.startKey = c.key
	return nil
}

// SetEnd marks c as the end cell.
func (m *Maze) SetEnd(c Cell) error {
	if c.maze != m {
		return ErrForeignCell
	}
	m.endKey = c.key
	return nil
}

// OpenPassages counts the interior walls that have been cleared.
func (m *Maze) OpenPassages() int {
	open := 0
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			key := y*m.width + x
			if y > 0 && !m.northWalls.Get(key) {
				open++
			}
			if x > 0 && !m.westWalls.Get(key) {
				open++
			}
		}
	}
	return open
}

// Equal reports whether m and other have the same size, walls, start and end.
// Flags of boundary walls are ignored since they can never be observed.
func (m *Maze) Equal(other *Maze) bool {
	if m.width != other.width || m.height != other.height {
		return false
	}
	if m.startKey != other.startKey || m.endKey != other.endKey {
		return false
	}
	for key := 0; key < m.Size(); key++ {
		a, b := m.CellByKeyUnchecked(key), other.CellByKeyUnchecked(key)
		for _, dir := range UpLeft {
			if a.HasWall(dir) != b.HasWall(dir) {
				return false
			}
		}
	}
	return true
}

// CellByKeyUnchecked returns the cell for key without validating it.
// Using an out-of-range key panics on the first wall access.
func (m *Maze) CellByKeyUnchecked(key int) Cell {
	return Cell{maze: m, key: key}
}

// relativeKey returns the key one step from key in dir, if it exists.
func (m *Maze) relativeKey(key int, dir Direction) (int, bool) {
	x := key % m.width
	switch dir {
	case North:
		return key - m.width, key >= m.width
	case South:
		return key + m.width, key+m.width < m.Size()
	case West:
		return key - 1, x > 0
	case East:
		return key + 1, x < m.width-1
	default:
		panic(fmt.Sprintf("maze: invalid direction %d", int(dir)))
	}
}

// adjacentDirection returns the direction from key a to key b when they are neighbors.
func (m *Maze) adjacentDirection(a, b int) (Direction, bool) {
	switch diff := b - a; {
	case diff == m.width:
		return South, true
	case diff == -m.width:
		return North, true
	case diff == 1 || diff == -1:
		if a/m.width != b/m.width {
			return 0, false
		}
		if diff == 1 {
			return East, true
		}
		return West, true
	default:
		return 0, false
	}
}
