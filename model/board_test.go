package model

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func gridFrom(rows ...string) [][]bool {
	grid := make([][]bool, len(rows))
	for y, row := range rows {
		grid[y] = make([]bool, len(row))
		for x, c := range row {
			grid[y][x] = c == '#'
		}
	}
	return grid
}

func TestNewBoardCopiesGrid(t *testing.T) {
	grid := gridFrom("#..", ".#.", "..#")
	created := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)

	b, err := NewBoard(grid, "board-1", created)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	grid[0][0] = false

	if !b.Alive(0, 0) {
		t.Fatal("board aliases the caller's grid")
	}
	if b.Generation != 0 {
		t.Fatalf("generation = %d, want 0", b.Generation)
	}
	if b.Width() != 3 || b.Height() != 3 {
		t.Fatalf("dimensions = %dx%d, want 3x3", b.Width(), b.Height())
	}
}

func TestNewBoardRejectsMalformedGrids(t *testing.T) {
	tests := map[string][][]bool{
		"nil":     nil,
		"no cols": {{}, {}},
		"ragged":  {{true, false}, {true}},
	}

	for name, grid := range tests {
		if _, err := NewBoard(grid, "x", time.Time{}); !errors.Is(err, ErrInvalidGrid) {
			t.Fatalf("%s: err = %v, want ErrInvalidGrid", name, err)
		}
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	b, err := NewBoard(gridFrom("##", ".."), "a", time.Unix(10, 0))
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	b.Generation = 7

	c := b.Clone()
	c.Grid[0][0] = false

	if !b.Grid[0][0] {
		t.Fatal("mutating the clone changed the original")
	}
	if c.ID != b.ID || c.Generation != b.Generation || !c.CreatedAt.Equal(b.CreatedAt) {
		t.Fatalf("clone metadata = %+v, want %+v", c, b)
	}
}

func TestNeighborsClipAtEdges(t *testing.T) {
	b := &Board{Grid: gridFrom("###", "###", "###")}

	tests := []struct {
		x, y int
		want int
	}{
		{0, 0, 3},
		{1, 0, 5},
		{1, 1, 8},
		{2, 2, 3},
	}
	for _, tt := range tests {
		if got := b.Neighbors(tt.x, tt.y); got != tt.want {
			t.Fatalf("Neighbors(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFingerprintMatchesClone(t *testing.T) {
	b := &Board{ID: "a", Grid: gridFrom("#.#.#", ".###.", "#...#"), Generation: 4}
	c := b.Clone()
	c.ID = "other"
	c.Generation = 99

	if b.Fingerprint() != c.Fingerprint() {
		t.Fatal("fingerprint depends on metadata")
	}
}

func TestFingerprintDistinguishesEveryGridOfFixedSize(t *testing.T) {
	// All 2^9 grids of a 3x3 board must map to distinct fingerprints.
	seen := make(map[Fingerprint]int)
	for mask := 0; mask < 1<<9; mask++ {
		b := NewEmptyBoard(3, 3)
		for i := 0; i < 9; i++ {
			b.Grid[i/3][i%3] = mask&(1<<i) != 0
		}
		fp := b.Fingerprint()
		if prev, ok := seen[fp]; ok {
			t.Fatalf("masks %d and %d collide", prev, mask)
		}
		seen[fp] = mask
	}
}

func TestFingerprintIncludesDimensions(t *testing.T) {
	wide := NewEmptyBoard(4, 2)
	tall := NewEmptyBoard(2, 4)
	if wide.Fingerprint() == tall.Fingerprint() {
		t.Fatal("2x4 and 4x2 empty boards share a fingerprint")
	}
}

func TestActiveBounds(t *testing.T) {
	b := &Board{Grid: gridFrom(".....", "..#..", "...#.", ".....")}
	bounds, ok := b.ActiveBounds()
	if !ok {
		t.Fatal("expected live cells")
	}
	want := Bounds{MinX: 2, MaxX: 3, MinY: 1, MaxY: 2}
	if bounds != want {
		t.Fatalf("bounds = %+v, want %+v", bounds, want)
	}

	if _, ok := NewEmptyBoard(3, 3).ActiveBounds(); ok {
		t.Fatal("empty board reported live cells")
	}
}

func TestLiveCellsAndIsEmpty(t *testing.T) {
	b := &Board{Grid: gridFrom("#.", "##")}
	if got := b.LiveCells(); got != 3 {
		t.Fatalf("live cells = %d, want 3", got)
	}
	if b.IsEmpty() {
		t.Fatal("board with live cells reported empty")
	}
	if !NewEmptyBoard(2, 2).IsEmpty() {
		t.Fatal("empty board reported live cells")
	}
}

func TestFactoryRandomIsReproducible(t *testing.T) {
	ids := 0
	f := Factory{
		NewID: func() string { ids++; return "id" },
		Now:   func() time.Time { return time.Unix(0, 0).UTC() },
	}

	a := f.Random(12, 9, NewRNG(42), DefaultDensity)
	b := f.Random(12, 9, NewRNG(42), DefaultDensity)

	if a.Height() != 12 || a.Width() != 9 {
		t.Fatalf("dimensions = %dx%d, want 9x12", a.Width(), a.Height())
	}
	if !a.Equal(b) {
		t.Fatal("same seed produced different boards")
	}
	if ids != 2 {
		t.Fatalf("id generator called %d times, want 2", ids)
	}
	if a.Generation != 0 {
		t.Fatalf("generation = %d, want 0", a.Generation)
	}
}

func TestFactoryRandomDensityExtremes(t *testing.T) {
	f := NewFactory()
	if !f.Random(5, 5, NewRNG(1), 0).IsEmpty() {
		t.Fatal("density 0 produced live cells")
	}
	if got := f.Random(5, 5, NewRNG(1), 1).LiveCells(); got != 25 {
		t.Fatalf("density 1 produced %d live cells, want 25", got)
	}
}

func TestTerminalRendererDisplay(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalRenderer{Out: &buf}

	if err := r.Display(&Board{Grid: gridFrom("#.", ".#")}); err != nil {
		t.Fatalf("display: %v", err)
	}

	want := strings.Join([]string{
		gridPosBlock + gridPosEmpty,
		gridPosEmpty + gridPosBlock,
	}, "\n") + "\n"
	if buf.String() != want {
		t.Fatalf("display = %q, want %q", buf.String(), want)
	}
}
