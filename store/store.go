// Package store persists boards keyed by ID with time-based expiration.
package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-api/model"
)

// ErrNotFound indicates the board is missing or expired.
var ErrNotFound = errors.New("board not found")

// Store is the persistence contract the service depends on. Each call is
// atomic for its key; concurrent saves of the same ID are last-write-wins.
type Store interface {
	// Get returns the board or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Board, error)
	// Save upserts the board and restarts its expiration clock.
	Save(ctx context.Context, b *model.Board) (string, error)
	// Delete reports whether a live record existed and was removed.
	Delete(ctx context.Context, id string) (bool, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// Sweepable stores can purge expired records in bulk.
type Sweepable interface {
	Sweep(ctx context.Context) (int, error)
}
