// Package engine applies Conway's rule to boards, one or many generations at
// a time. Every call allocates a fresh grid and leaves its input untouched.
package engine

import (
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-api/model"
	"github.com/sheikhrachel/go-gol-api/rules"
)

// ErrNegativeGenerations is returned by Advance for n < 0.
var ErrNegativeGenerations = errors.New("number of generations must be non-negative")

// Step computes the next generation of b. Neighbors beyond the edge count as
// dead. The result keeps b's ID, CreatedAt and dimensions and has
// Generation+1.
func Step(b *model.Board) *model.Board {
	next := model.NewEmptyBoard(b.Width(), b.Height())
	next.ID = b.ID
	next.CreatedAt = b.CreatedAt
	next.Generation = b.Generation + 1

	bounds, ok := b.ActiveBounds()
	if !ok {
		return next
	}

	// Only the live region plus a one-cell margin can hold live cells next turn.
	minX := max(0, bounds.MinX-1)
	maxX := min(b.Width()-1, bounds.MaxX+1)
	minY := max(0, bounds.MinY-1)
	maxY := min(b.Height()-1, bounds.MaxY+1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if rules.ApplyConwayRules(b.Neighbors(x, y), b.Grid[y][x]) {
				next.Grid[y][x] = true
			}
		}
	}

	return next
}

// Advance applies Step n times. Advance(b, 0) returns a copy of b. A negative
// n or a malformed board is a caller error.
func Advance(b *model.Board, n int) (*model.Board, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrNegativeGenerations, "[Advance] n=%d", n)
	}
	if err := b.Validate(); err != nil {
		return nil, errors.Wrap(err, "[Advance]")
	}

	current := b.Clone()
	for range n {
		current = Step(current)
	}
	return current, nil
}
