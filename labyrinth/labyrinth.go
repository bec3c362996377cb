/*
Package labyrinth converts a maze into a denser one of twice the resolution.

Every source cell becomes a 2x2 block. An open source wall becomes a pair of
corridors running through it; a closed source wall becomes a connection
inside the block, parallel to that wall. The result traces the outline of
the source maze's walls. Entrance and exit are fixed at (0,0) and (1,0) with
a wall forced between them, so the path runs all the way around.
*/
package labyrinth

import (
	"fmt"

	"github.com/beka-birhanu/vinom-maze/maze"
)

// corridor clears the wall on one side of the cell at (x, y) of the result.
type corridor struct {
	dx, dy int
	dir    maze.Direction
}

// Corridors per source side: the first slice applies when the side is open,
// the second when it is walled. Offsets are relative to the top-left cell of
// the 2x2 block.
var corridors = map[maze.Direction][2][]corridor{
	maze.North: {
		{{0, 0, maze.North}, {1, 0, maze.North}},
		{{0, 0, maze.East}},
	},
	maze.East: {
		{{1, 0, maze.East}, {1, 1, maze.East}},
		{{1, 0, maze.South}},
	},
	maze.South: {
		{{0, 1, maze.South}, {1, 1, maze.South}},
		{{0, 1, maze.East}},
	},
	maze.West: {
		{{0, 0, maze.West}, {0, 1, maze.West}},
		{{0, 0, maze.South}},
	},
}

// Convert returns the labyrinth of source, of size 2*width x 2*height.
func Convert(source *maze.Maze) (*maze.Maze, error) {
	m, err := maze.New(source.Width()*2, source.Height()*2)
	if err != nil {
		return nil, err
	}

	for y := 0; y < source.Height(); y++ {
		for x := 0; x < source.Width(); x++ {
			sc := source.MustCell(x, y)
			for _, dir := range maze.Directions {
				variant := corridors[dir][0]
				if sc.HasWall(dir) {
					variant = corridors[dir][1]
				}
				for _, c := range variant {
					if err := m.MustCell(x*2+c.dx, y*2+c.dy).ClearWall(c.dir); err != nil {
						return nil, fmt.Errorf("convert (%d,%d) %s: %w", x, y, dir, err)
					}
				}
			}
		}
	}

	entrance, exit := m.MustCell(0, 0), m.MustCell(1, 0)
	if err := entrance.SetMutualWall(exit, true); err != nil {
		return nil, err
	}
	if err := m.SetStart(entrance); err != nil {
		return nil, err
	}
	if err := m.SetEnd(exit); err != nil {
		return nil, err
	}
	return m, nil
}

// Seed returns the labyrinth of a single walled cell: a 2x2 U-shaped perfect
// maze, the usual starting point for repeated expansion.
func Seed() (*maze.Maze, error) {
	single, err := maze.New(1, 1)
	if err != nil {
		return nil, err
	}
	return Convert(single)
}
