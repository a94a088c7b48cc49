package model

import (
	"math/rand/v2"
	"time"
)

// DefaultDensity gives every cell an even chance of starting alive.
const DefaultDensity = 0.5

// NewRNG creates a deterministic random source from seed.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// Factory stamps new boards with an identifier and a creation time.
type Factory struct {
	NewID IDGenerator
	Now   func() time.Time
}

// NewFactory returns a Factory using UUIDs and the UTC wall clock.
func NewFactory() Factory {
	return Factory{
		NewID: NewID,
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

// FromGrid builds a new generation-zero board lineage from grid.
func (f Factory) FromGrid(grid [][]bool) (*Board, error) {
	return NewBoard(grid, f.NewID(), f.Now())
}

// Random allocates a rows x cols board where each cell is independently
// alive with probability density.
func (f Factory) Random(rows, cols int, rng *rand.Rand, density float64) *Board {
	b := NewEmptyBoard(cols, rows)
	for y := range rows {
		for x := range cols {
			b.Grid[y][x] = rng.Float64() < density
		}
	}
	b.ID = f.NewID()
	b.CreatedAt = f.Now()
	return b
}

// AddGlider places a glider with its top-left corner at (startX, startY).
// Cells falling outside the board are dropped.
func (b *Board) AddGlider(startX, startY int) {
	pattern := [][]bool{
		{false, true, false},
		{false, false, true},
		{true, true, true},
	}

	for y, row := range pattern {
		for x, cell := range row {
			b.set(startX+x, startY+y, cell)
		}
	}
}

// AddBlinker places a horizontal blinker oscillator starting at (startX, startY).
func (b *Board) AddBlinker(startX, startY int) {
	b.set(startX, startY, true)
	b.set(startX+1, startY, true)
	b.set(startX+2, startY, true)
}

// AddBlock places a 2x2 still life with its top-left corner at (startX, startY).
func (b *Board) AddBlock(startX, startY int) {
	b.set(startX, startY, true)
	b.set(startX+1, startY, true)
	b.set(startX, startY+1, true)
	b.set(startX+1, startY+1, true)
}

func (b *Board) set(x, y int, alive bool) {
	if y >= 0 && y < len(b.Grid) && x >= 0 && x < len(b.Grid[y]) {
		b.Grid[y][x] = alive
	}
}
