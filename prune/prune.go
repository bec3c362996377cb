/*
Package prune reduces a perfect maze to the unique path between its start
and end cells.

Dead ends ("tails", cells with exactly one open side) other than start and
end are sealed one by one; sealing a tail can turn its neighbor into a new
tail, which is then sealed too. Every seal removes one open wall, so the
process always terminates.
*/
package prune

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze/maze"
)

var ErrNoPath = errors.New("prune: start and end are not connected")

// Prune returns a copy of source in which every passage that is not on the
// path between start and end has been sealed. source is not modified.
func Prune(source *maze.Maze) (*maze.Maze, error) {
	m := source.Clone()
	var stack []maze.Cell

	// Queue every tail up front.
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			cell := m.MustCell(x, y)
			if prunable(cell) {
				stack = append(stack, cell)
			}
		}
	}

	for len(stack) > 0 {
		cell := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// A tail pointing at another tail may already have been sealed from the other side.
		dir, ok := tailDirection(cell)
		if !ok {
			continue
		}
		if err := cell.SetWall(dir, true); err != nil {
			return nil, fmt.Errorf("seal %s: %w", cell, err)
		}

		other, err := cell.Move(dir)
		if err != nil {
			return nil, err
		}
		if prunable(other) {
			stack = append(stack, other)
		}
	}

	return m, nil
}

// Path returns the cells from start to end, both included, following the open
// passages of a pruned maze.
func Path(m *maze.Maze) ([]maze.Cell, error) {
	path := []maze.Cell{m.Start()}
	prev, cur := maze.Cell{}, m.Start()
	for cur != m.End() {
		next, ok := step(cur, prev)
		if !ok {
			return nil, ErrNoPath
		}
		prev, cur = cur, next
		path = append(path, cur)
		if len(path) > m.Size() {
			return nil, fmt.Errorf("%w: path revisits cells", ErrNoPath)
		}
	}
	return path, nil
}

// step returns the single open neighbor of cur other than prev.
func step(cur, prev maze.Cell) (maze.Cell, bool) {
	var next maze.Cell
	found := false
	for _, dir := range cur.OpenDirections() {
		n, _ := cur.TryMove(dir)
		if n == prev {
			continue
		}
		if found {
			// Branches left over: the maze was not pruned.
			return maze.Cell{}, false
		}
		next, found = n, true
	}
	return next, found
}

func tailDirection(cell maze.Cell) (maze.Direction, bool) {
	open := cell.OpenDirections()
	if len(open) != 1 {
		return 0, false
	}
	return open[0], true
}

func prunable(cell maze.Cell) bool {
	if cell == cell.Maze().Start() || cell == cell.Maze().End() {
		return false
	}
	_, ok := tailDirection(cell)
	return ok
}
