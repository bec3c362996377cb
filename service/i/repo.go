package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/google/uuid"
)

// UserRepo defines the interface for user persistence operations.
type UserRepo interface {
	// Save inserts or updates a user in the repository.
	// If the user already exists, it updates the record. Otherwise, it creates a new one.
	Save(ctx context.Context, user *dmn.User) error

	// ByID retrieves a user by their unique ID.
	// Returns dmn.ErrUserNotFound if the user is not found.
	ByID(ctx context.Context, id uuid.UUID) (*dmn.User, error)

	// ByUsername retrieves a user by their username.
	// Returns dmn.ErrUserNotFound if the user is not found.
	ByUsername(ctx context.Context, username string) (*dmn.User, error)
}

// MazeRepo stores maze records.
type MazeRepo interface {
	// Save inserts a maze record.
	Save(ctx context.Context, record *dmn.MazeRecord) error

	// ByID retrieves a record. Returns dmn.ErrMazeNotFound if it does not exist.
	ByID(ctx context.Context, id uuid.UUID) (*dmn.MazeRecord, error)

	// ByIDs retrieves the records that exist among ids, in no particular order.
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]*dmn.MazeRecord, error)
}
