/*
Package wilson generates uniform random perfect mazes with Wilson's algorithm.

Starting from a single visited cell, loop-erased random walks are started from
unvisited cells until they hit the visited part of the maze; the erased walk
is then carved and joined to it.
*/
package wilson

import (
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
)

// New generates a width x height perfect maze with start at the top left
// and end at the bottom right cell. A nil rnd uses a time-seeded source.
func New(width, height int, rnd *rand.Rand) (*maze.Maze, error) {
	m, err := maze.New(width, height)
	if err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &generator{
		maze:    m,
		rnd:     rnd,
		visited: make([]bool, m.Size()),
		exits:   make([]maze.Direction, m.Size()),
	}
	g.generate()

	if err := m.SetStart(m.MustCell(0, 0)); err != nil {
		return nil, err
	}
	if err := m.SetEnd(m.MustCell(width-1, height-1)); err != nil {
		return nil, err
	}
	return m, nil
}

type generator struct {
	maze    *maze.Maze
	rnd     *rand.Rand
	visited []bool
	// exits holds the direction a walk last left each cell by.
	exits   []maze.Direction
	remains int
}

func (g *generator) generate() {
	g.remains = g.maze.Size() - 1
	g.visited[g.rnd.Intn(g.maze.Size())] = true

	for g.remains > 0 {
		start := g.randomUnvisitedCell()
		g.randomWalk(start)
		g.carve(start)
	}
}

// randomUnvisitedCell picks a random unvisited cell.
func (g *generator) randomUnvisitedCell() maze.Cell {
	for {
		key := g.rnd.Intn(g.maze.Size())
		if !g.visited[key] {
			return g.maze.CellByKeyUnchecked(key)
		}
	}
}

// randomWalk wanders from start until it reaches a visited cell, recording
// the last exit of every cell it passes. Revisiting a cell overwrites its
// exit, which erases the loop.
func (g *generator) randomWalk(start maze.Cell) {
	cell := start
	for !g.visited[cell.Key()] {
		moves := g.neighbors(cell)
		dir := moves[g.rnd.Intn(len(moves))]
		g.exits[cell.Key()] = dir
		cell, _ = cell.TryMove(dir)
	}
}

// carve opens the loop-erased walk from start and marks it visited.
func (g *generator) carve(start maze.Cell) {
	cell := start
	for !g.visited[cell.Key()] {
		dir := g.exits[cell.Key()]
		next, _ := cell.TryMove(dir)
		// Walks only move between adjacent cells, so this cannot fail.
		_ = cell.ClearMutualWall(next)
		g.visited[cell.Key()] = true
		g.remains--
		cell = next
	}
}

// neighbors lists the directions leading to a cell inside the maze.
func (g *generator) neighbors(cell maze.Cell) []maze.Direction {
	result := make([]maze.Direction, 0, len(maze.Directions))
	for _, dir := range maze.Directions {
		if _, ok := cell.TryMove(dir); ok {
			result = append(result, dir)
		}
	}
	return result
}
