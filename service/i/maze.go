package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/google/uuid"
)

// MazeService creates, transforms and publishes mazes.
type MazeService interface {
	// Seed stores the 2x2 labyrinth every expansion chain starts from.
	Seed(ctx context.Context, owner uuid.UUID) (*dmn.MazeRecord, error)
	// Random stores a uniform random perfect maze.
	Random(ctx context.Context, owner uuid.UUID, width, height int) (*dmn.MazeRecord, error)
	// Expand stores the expansion of a maze by factor.
	Expand(ctx context.Context, owner, id uuid.UUID, factor int) (*dmn.MazeRecord, error)
	// Labyrinth stores the labyrinth conversion of a maze.
	Labyrinth(ctx context.Context, owner, id uuid.UUID) (*dmn.MazeRecord, error)
	// Solve stores the pruned maze and returns the solution path as (x, y) pairs.
	Solve(ctx context.Context, owner, id uuid.UUID) (*dmn.MazeRecord, [][2]int, error)
	Get(ctx context.Context, id uuid.UUID) (*dmn.MazeRecord, error)
	// Render returns the maze as PNG.
	Render(ctx context.Context, id uuid.UUID, scale int) ([]byte, error)
	// Raw returns the maze in its uncompressed binary form.
	Raw(ctx context.Context, id uuid.UUID) ([]byte, error)
	// Import stores a maze given in its uncompressed binary form.
	Import(ctx context.Context, owner uuid.UUID, raw []byte) (*dmn.MazeRecord, error)
	// Largest lists up to n stored mazes with the most cells, largest first.
	Largest(ctx context.Context, n int64) ([]*dmn.MazeRecord, error)
}
