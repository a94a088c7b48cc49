package model

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidGrid is returned when a grid is empty or ragged.
var ErrInvalidGrid = errors.New("invalid grid")

// Board is one generation of a Game of Life lineage.
//
// A Board is treated as immutable once built: transitions produce a new Board
// sharing ID and CreatedAt with its source and never write to the source grid.
type Board struct {
	ID         string    `json:"id"`
	Grid       [][]bool  `json:"grid"`
	Generation int       `json:"generation"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Fingerprint is an exact encoding of a board's cells. Two boards have the
// same fingerprint iff they have the same dimensions and the same cells.
type Fingerprint string

// NewBoard builds a generation-zero board over a copy of grid.
func NewBoard(grid [][]bool, id string, createdAt time.Time) (*Board, error) {
	if err := checkRectangular(grid); err != nil {
		return nil, err
	}
	return &Board{
		ID:        id,
		Grid:      copyGrid(grid),
		CreatedAt: createdAt,
	}, nil
}

// NewEmptyBoard allocates an all-dead board of the given size.
func NewEmptyBoard(width, height int) *Board {
	cells := make([][]bool, height)
	for i := range cells {
		cells[i] = make([]bool, width)
	}
	return &Board{Grid: cells}
}

// Width returns the number of columns
func (b *Board) Width() int {
	if len(b.Grid) == 0 {
		return 0
	}
	return len(b.Grid[0])
}

// Height returns the number of rows
func (b *Board) Height() int {
	return len(b.Grid)
}

// Alive reports whether the cell at (x, y) is alive. Off-grid cells are dead.
func (b *Board) Alive(x, y int) bool {
	if y < 0 || y >= len(b.Grid) || x < 0 || x >= len(b.Grid[y]) {
		return false
	}
	return b.Grid[y][x]
}

// Neighbors counts living neighbors of (x, y), clipped at the grid edge.
func (b *Board) Neighbors(x, y int) int {
	count := 0

	minX := max(0, x-1)
	maxX := min(b.Width()-1, x+1)
	minY := max(0, y-1)
	maxY := min(b.Height()-1, y+1)

	for ny := minY; ny <= maxY; ny++ {
		for nx := minX; nx <= maxX; nx++ {
			if nx == x && ny == y {
				continue
			}
			if b.Grid[ny][nx] {
				count++
			}
		}
	}

	return count
}

// Bounds is the bounding box of living cells, inclusive on both ends.
type Bounds struct {
	MinX, MaxX, MinY, MaxY int
}

// ActiveBounds returns the bounding box of living cells. ok is false when
// the board has no living cells.
func (b *Board) ActiveBounds() (bounds Bounds, ok bool) {
	for y, row := range b.Grid {
		for x, alive := range row {
			if !alive {
				continue
			}
			if !ok {
				bounds = Bounds{MinX: x, MaxX: x, MinY: y, MaxY: y}
				ok = true
				continue
			}
			bounds.MinX = min(bounds.MinX, x)
			bounds.MaxX = max(bounds.MaxX, x)
			bounds.MinY = min(bounds.MinY, y)
			bounds.MaxY = max(bounds.MaxY, y)
		}
	}
	return bounds, ok
}

// LiveCells returns the total number of living cells
func (b *Board) LiveCells() (count int) {
	for _, row := range b.Grid {
		for _, alive := range row {
			if alive {
				count++
			}
		}
	}
	return
}

// IsEmpty reports whether no cell is alive.
func (b *Board) IsEmpty() bool {
	for _, row := range b.Grid {
		for _, alive := range row {
			if alive {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy; the grids of b and the clone never alias.
func (b *Board) Clone() *Board {
	return &Board{
		ID:         b.ID,
		Grid:       copyGrid(b.Grid),
		Generation: b.Generation,
		CreatedAt:  b.CreatedAt,
	}
}

// Fingerprint encodes the grid row-major, eight cells per byte, behind a
// "<height>x<width>:" prefix. It ignores ID, Generation and CreatedAt.
func (b *Board) Fingerprint() Fingerprint {
	h, w := b.Height(), b.Width()
	prefix := strconv.Itoa(h) + "x" + strconv.Itoa(w) + ":"

	buf := make([]byte, len(prefix), len(prefix)+(h*w+7)/8)
	copy(buf, prefix)

	var (
		cur byte
		bit uint
	)
	for _, row := range b.Grid {
		for _, alive := range row {
			if alive {
				cur |= 1 << bit
			}
			bit++
			if bit == 8 {
				buf = append(buf, cur)
				cur, bit = 0, 0
			}
		}
	}
	if bit > 0 {
		buf = append(buf, cur)
	}

	return Fingerprint(buf)
}

// Equal reports whether two boards have identical cells.
func (b *Board) Equal(other *Board) bool {
	if b.Height() != other.Height() || b.Width() != other.Width() {
		return false
	}
	for y, row := range b.Grid {
		for x, alive := range row {
			if other.Grid[y][x] != alive {
				return false
			}
		}
	}
	return true
}

// Validate checks the structural invariants the engine relies on.
func (b *Board) Validate() error {
	if err := checkRectangular(b.Grid); err != nil {
		return err
	}
	if b.Generation < 0 {
		return errors.Wrapf(ErrInvalidGrid, "negative generation %d", b.Generation)
	}
	return nil
}

func checkRectangular(grid [][]bool) error {
	if len(grid) == 0 {
		return errors.Wrap(ErrInvalidGrid, "grid has no rows")
	}
	width := len(grid[0])
	if width == 0 {
		return errors.Wrap(ErrInvalidGrid, "grid has no columns")
	}
	for y, row := range grid {
		if len(row) != width {
			return errors.Wrapf(ErrInvalidGrid, "row %d has %d cells, want %d", y, len(row), width)
		}
	}
	return nil
}

func copyGrid(grid [][]bool) [][]bool {
	out := make([][]bool, len(grid))
	for y, row := range grid {
		out[y] = append([]bool(nil), row...)
	}
	return out
}
