package store

import (
	"context"
	"errors"

	"github.com/user/tubevibes/internal/model"
)

var (
	// ErrNotFound is returned by mutations that target a missing record
	ErrNotFound = errors.New("video not found")
	// ErrDuplicateID is returned when inserting a record whose id already exists
	ErrDuplicateID = errors.New("duplicate video id")
)

// Store defines the interface for catalog persistence.
// Implementations return copies; callers never hold a reference to stored state.
type Store interface {
	// List returns every record in insertion order
	List(ctx context.Context) ([]*model.Video, error)
	// Get returns the record with the given id, or nil and no error when it does not exist
	Get(ctx context.Context, id string) (*model.Video, error)
	// Insert appends a new record
	Insert(ctx context.Context, video *model.Video) error
	// Replace overwrites the record with the same id, keeping its position
	Replace(ctx context.Context, video *model.Video) error
	// Delete removes a record and reports whether it existed
	Delete(ctx context.Context, id string) (bool, error)
	// Count returns the number of records
	Count(ctx context.Context) (int64, error)

	// Health check
	Ping(ctx context.Context) error
	Close() error
}
