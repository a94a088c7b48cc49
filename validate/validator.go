// Package validate gates caller input before it reaches the engine.
package validate

import "fmt"

const (
	DefaultMinBoardSize  = 3
	DefaultMaxBoardSize  = 1000
	DefaultMaxIterations = 1000
)

// Validator checks grids and iteration counts. Failures are reported as a
// human-readable reason, never as a panic.
type Validator interface {
	ValidateGrid(grid [][]bool) (bool, string)
	ValidateDimensions(rows, cols int) (bool, string)
	ValidateIterationCount(n int) (bool, string)
}

// Bounds holds the configured limits. Min and max are independent settings.
type Bounds struct {
	MinBoardSize  int
	MaxBoardSize  int
	MaxIterations int
}

// DefaultBounds returns the stock limits
func DefaultBounds() Bounds {
	return Bounds{
		MinBoardSize:  DefaultMinBoardSize,
		MaxBoardSize:  DefaultMaxBoardSize,
		MaxIterations: DefaultMaxIterations,
	}
}

// BoardValidator enforces Bounds.
type BoardValidator struct {
	bounds Bounds
}

// NewBoardValidator returns a validator for bounds.
func NewBoardValidator(bounds Bounds) *BoardValidator {
	return &BoardValidator{bounds: bounds}
}

// Bounds returns the configured limits.
func (v *BoardValidator) Bounds() Bounds {
	return v.bounds
}

// ValidateGrid rejects empty or ragged grids and grids outside the size bounds.
func (v *BoardValidator) ValidateGrid(grid [][]bool) (bool, string) {
	if grid == nil {
		return false, "Board grid cannot be null"
	}
	if len(grid) == 0 {
		return false, "Board must not contain empty rows"
	}
	for _, row := range grid {
		if len(row) == 0 {
			return false, "Board must not contain empty rows"
		}
	}

	width := len(grid[0])
	for _, row := range grid {
		if len(row) != width {
			return false, "All rows must have the same number of columns"
		}
	}

	return v.ValidateDimensions(len(grid), width)
}

// ValidateDimensions checks rows and cols against the size bounds.
func (v *BoardValidator) ValidateDimensions(rows, cols int) (bool, string) {
	if rows < v.bounds.MinBoardSize || cols < v.bounds.MinBoardSize {
		return false, fmt.Sprintf("Board dimensions must be at least %dx%d", v.bounds.MinBoardSize, v.bounds.MinBoardSize)
	}
	if rows > v.bounds.MaxBoardSize || cols > v.bounds.MaxBoardSize {
		return false, fmt.Sprintf("Board dimensions cannot exceed %dx%d", v.bounds.MaxBoardSize, v.bounds.MaxBoardSize)
	}
	return true, ""
}

// ValidateIterationCount checks 1 <= n <= MaxIterations.
func (v *BoardValidator) ValidateIterationCount(n int) (bool, string) {
	if n < 1 {
		return false, "Number of iterations must be at least 1"
	}
	if n > v.bounds.MaxIterations {
		return false, fmt.Sprintf("Number of iterations cannot exceed %d", v.bounds.MaxIterations)
	}
	return true, ""
}
