// Package render draws mazes as raster images.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/beka-birhanu/vinom-maze/maze"
)

var ErrInvalidScale = errors.New("render: scale must be at least 1")

// Colors used for the different cell kinds.
var (
	Background = color.RGBA{A: 0xff}
	Open       = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	StartColor = color.RGBA{G: 0xff, A: 0xff}
	EndColor   = color.RGBA{R: 0xff, A: 0xff}
)

// WallThickness returns the wall thickness in pixels for a cell scale: ceil(scale/4).
func WallThickness(scale int) int {
	return (scale + 3) / 4
}

// Bounds returns the image size for m at the given scale.
func Bounds(m *maze.Maze, scale int) image.Rectangle {
	walls := WallThickness(scale)
	total := scale + walls
	return image.Rect(0, 0, m.Width()*total+walls, m.Height()*total+walls)
}

// Image draws m with cells of scale x scale pixels. Open cells and the
// passages north and west of them are filled; walls and inactive cells keep
// the background color. Start and end are drawn in their own colors.
func Image(m *maze.Maze, scale int) (*image.RGBA, error) {
	if scale < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidScale, scale)
	}

	walls := WallThickness(scale)
	total := scale + walls
	img := image.NewRGBA(Bounds(m, scale))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			cell := m.MustCell(x, y)
			fill := image.NewUniform(cellColor(m, cell))

			left, top := x*total+walls, y*total+walls
			draw.Draw(img, image.Rect(left, top, left+scale, top+scale), fill, image.Point{}, draw.Src)
			if !cell.HasWall(maze.North) {
				draw.Draw(img, image.Rect(left, top-walls, left+scale, top), fill, image.Point{}, draw.Src)
			}
			if !cell.HasWall(maze.West) {
				draw.Draw(img, image.Rect(left-walls, top, left, top+scale), fill, image.Point{}, draw.Src)
			}
		}
	}
	return img, nil
}

// PNG draws m and encodes it as PNG to w.
func PNG(w io.Writer, m *maze.Maze, scale int) error {
	img, err := Image(m, scale)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func cellColor(m *maze.Maze, cell maze.Cell) color.RGBA {
	switch {
	case cell == m.End():
		return EndColor
	case cell == m.Start():
		return StartColor
	case cell.IsInactive():
		return Background
	default:
		return Open
	}
}
