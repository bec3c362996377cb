// Package domain holds the persisted entities of the maze service.
package domain

import (
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-maze/codec"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/google/uuid"
)

// Origin tells how a stored maze was produced.
type Origin string

const (
	OriginSeed      Origin = "seed"
	OriginRandom    Origin = "random"
	OriginExpand    Origin = "expand"
	OriginLabyrinth Origin = "labyrinth"
	OriginSolution  Origin = "solution"
	OriginImport    Origin = "import"
)

var (
	ErrMazeNotFound = errors.New("maze not found")
	ErrMazeBusy     = errors.New("maze is being processed")
	ErrTooLarge     = errors.New("maze too large")
)

// MazeRecord is a maze together with its provenance, as stored in the database.
// The maze itself is kept as a compressed blob.
type MazeRecord struct {
	ID        uuid.UUID `bson:"_id"`
	Owner     uuid.UUID `bson:"owner"`
	Parent    uuid.UUID `bson:"parent"`
	Origin    Origin    `bson:"origin"`
	Factor    int       `bson:"factor,omitempty"`
	Width     int       `bson:"width"`
	Height    int       `bson:"height"`
	Cells     int       `bson:"cells"`
	Blob      []byte    `bson:"blob"`
	CreatedAt time.Time `bson:"createdAt"`
}

// MazeRecordConfig holds parameters for creating a MazeRecord.
type MazeRecordConfig struct {
	ID     uuid.UUID
	Owner  uuid.UUID
	Parent uuid.UUID // uuid.Nil for mazes without a parent.
	Origin Origin
	Factor int
	Maze   *maze.Maze
}

// NewMazeRecord encodes config.Maze into a new record.
func NewMazeRecord(config MazeRecordConfig) (*MazeRecord, error) {
	blob, err := codec.Encode(config.Maze)
	if err != nil {
		return nil, err
	}
	return &MazeRecord{
		ID:        config.ID,
		Owner:     config.Owner,
		Parent:    config.Parent,
		Origin:    config.Origin,
		Factor:    config.Factor,
		Width:     config.Maze.Width(),
		Height:    config.Maze.Height(),
		Cells:     config.Maze.Size(),
		Blob:      blob,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Maze decodes the stored maze.
func (r *MazeRecord) Maze() (*maze.Maze, error) {
	return DecodeBlob(r.Blob)
}

// DecodeBlob decodes a maze blob as stored in a MazeRecord.
func DecodeBlob(blob []byte) (*maze.Maze, error) {
	return codec.Decode(blob)
}
