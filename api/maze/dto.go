// Package mazeapi exposes maze generation over HTTP.
package mazeapi

import (
	"time"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/google/uuid"
)

// RandomRequest asks for a random maze of the given size.
type RandomRequest struct {
	Width  int `json:"width" binding:"required,min=1"`
	Height int `json:"height" binding:"required,min=1"`
}

// ExpandRequest asks for an expansion by factor.
type ExpandRequest struct {
	Factor int `json:"factor" binding:"required,min=1"`
}

// MazeResponse describes a stored maze.
type MazeResponse struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Parent    string    `json:"parent,omitempty"`
	Origin    string    `json:"origin"`
	Factor    int       `json:"factor,omitempty"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Cells     int       `json:"cells"`
	CreatedAt time.Time `json:"created_at"`
}

// SolutionResponse carries a pruned maze and its solution path as [x, y] pairs.
type SolutionResponse struct {
	Maze   MazeResponse `json:"maze"`
	Path   [][2]int     `json:"path"`
	Length int          `json:"length"`
}

func newMazeResponse(r *dmn.MazeRecord) MazeResponse {
	resp := MazeResponse{
		ID:        r.ID.String(),
		Owner:     r.Owner.String(),
		Origin:    string(r.Origin),
		Factor:    r.Factor,
		Width:     r.Width,
		Height:    r.Height,
		Cells:     r.Cells,
		CreatedAt: r.CreatedAt,
	}
	if r.Parent != uuid.Nil {
		resp.Parent = r.Parent.String()
	}
	return resp
}
