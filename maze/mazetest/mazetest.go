// Package mazetest provides helpers for checking maze structure in tests.
package mazetest

import (
	"fmt"

	"github.com/beka-birhanu/vinom-maze/maze"
)

// CheckPerfect returns an error unless m is a spanning tree over all of its
// cells: fully connected with exactly Size()-1 open passages.
func CheckPerfect(m *maze.Maze) error {
	if open, want := m.OpenPassages(), m.Size()-1; open != want {
		return fmt.Errorf("open passages = %d, want %d", open, want)
	}
	if n := len(Reachable(m.MustCell(0, 0))); n != m.Size() {
		return fmt.Errorf("reachable cells = %d, want %d", n, m.Size())
	}
	return nil
}

// Reachable returns the keys of every cell connected to from by open passages.
func Reachable(from maze.Cell) map[int]bool {
	seen := map[int]bool{from.Key(): true}
	queue := []maze.Cell{from}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, dir := range c.OpenDirections() {
			n, _ := c.TryMove(dir)
			if !seen[n.Key()] {
				seen[n.Key()] = true
				queue = append(queue, n)
			}
		}
	}
	return seen
}

// Path returns the cells on a shortest open path from one cell to another,
// both included, or nil when they are not connected. In a perfect maze the
// path is unique.
func Path(from, to maze.Cell) []maze.Cell {
	parent := map[int]int{from.Key(): -1}
	queue := []maze.Cell{from}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == to {
			break
		}
		for _, dir := range c.OpenDirections() {
			n, _ := c.TryMove(dir)
			if _, ok := parent[n.Key()]; !ok {
				parent[n.Key()] = c.Key()
				queue = append(queue, n)
			}
		}
	}

	if _, ok := parent[to.Key()]; !ok {
		return nil
	}
	var path []maze.Cell
	for key := to.Key(); key != -1; key = parent[key] {
		path = append([]maze.Cell{from.Maze().CellByKeyUnchecked(key)}, path...)
	}
	return path
}

// ActiveCells counts cells with at least one open side.
func ActiveCells(m *maze.Maze) int {
	n := 0
	for key := 0; key < m.Size(); key++ {
		if !m.CellByKeyUnchecked(key).IsInactive() {
			n++
		}
	}
	return n
}
