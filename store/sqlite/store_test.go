package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-api/model"
	"github.com/sheikhrachel/go-gol-api/store"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func openTempStore(t *testing.T, opts ...Option) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "boards.db"), opts...)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return s
}

func blinker(id string) *model.Board {
	b := model.NewEmptyBoard(5, 4)
	b.ID = id
	b.AddBlinker(1, 1)
	b.CreatedAt = time.Date(2026, time.October, 19, 9, 30, 0, 123456789, time.UTC)
	return b
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTempStore(t, WithTTL(time.Hour))

	b := blinker("b1")
	b.Generation = 12
	id, err := s.Save(ctx, b)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id != "b1" {
		t.Fatalf("id = %q, want b1", id)
	}

	got, err := s.Get(ctx, "b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Equal(b) {
		t.Fatalf("grid = %v, want %v", got.Grid, b.Grid)
	}
	if got.Width() != 5 || got.Height() != 4 {
		t.Fatalf("dimensions = %dx%d, want 5x4", got.Width(), got.Height())
	}
	if got.Generation != 12 {
		t.Fatalf("generation = %d, want 12", got.Generation)
	}
	if !got.CreatedAt.Equal(b.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, b.CreatedAt)
	}
}

func TestSaveUpserts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTempStore(t)

	b := blinker("b1")
	if _, err := s.Save(ctx, b); err != nil {
		t.Fatalf("save: %v", err)
	}
	b.Generation = 2
	b.Grid[0][0] = true
	if _, err := s.Save(ctx, b); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := s.Get(ctx, "b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Generation != 2 || !got.Grid[0][0] {
		t.Fatalf("got generation %d cell=%v, want updated row", got.Generation, got.Grid[0][0])
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want store.ErrNotFound", err)
	}
}

func TestDeleteAndListIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTempStore(t)

	for _, id := range []string{"c", "a", "b"} {
		if _, err := s.Save(ctx, blinker(id)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	ids, err := s.ListIDs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[2] != "c" {
		t.Fatalf("ids = %v, want [a b c]", ids)
	}

	deleted, err := s.Delete(ctx, "b")
	if err != nil || !deleted {
		t.Fatalf("delete = %v, %v; want true, nil", deleted, err)
	}
	deleted, err = s.Delete(ctx, "b")
	if err != nil || deleted {
		t.Fatalf("second delete = %v, %v; want false, nil", deleted, err)
	}

	ids, _ = s.ListIDs(ctx)
	if len(ids) != 2 {
		t.Fatalf("ids = %v, want two", ids)
	}
}

func TestExpiration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := &clock{now: time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)}
	s := openTempStore(t, WithTTL(time.Hour), WithClock(c.Now))

	if _, err := s.Save(ctx, blinker("old")); err != nil {
		t.Fatalf("save old: %v", err)
	}
	c.now = c.now.Add(40 * time.Minute)
	if _, err := s.Save(ctx, blinker("new")); err != nil {
		t.Fatalf("save new: %v", err)
	}
	c.now = c.now.Add(30 * time.Minute)

	if _, err := s.Get(ctx, "old"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expired get err = %v, want store.ErrNotFound", err)
	}
	if _, err := s.Get(ctx, "new"); err != nil {
		t.Fatalf("get new: %v", err)
	}
	ids, err := s.ListIDs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 || ids[0] != "new" {
		t.Fatalf("ids = %v, want [new]", ids)
	}
	if deleted, _ := s.Delete(ctx, "old"); deleted {
		t.Fatal("delete reported removing an expired board")
	}

	removed, err := s.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("swept %d, want 1", removed)
	}
}

func TestReopenKeepsBoards(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "boards.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Save(ctx, blinker("kept")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(ctx, "kept"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}

func TestCreatedAtKeepsFullPrecision(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTempStore(t)

	for _, createdAt := range []time.Time{
		time.Date(2026, time.October, 19, 9, 30, 0, 123456789, time.UTC),
		time.Date(2026, time.October, 19, 9, 30, 0, 1, time.FixedZone("CEST", 2*60*60)),
		{},
	} {
		b := blinker("precise")
		b.CreatedAt = createdAt
		if _, err := s.Save(ctx, b); err != nil {
			t.Fatalf("save: %v", err)
		}

		got, err := s.Get(ctx, "precise")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !got.CreatedAt.Equal(createdAt) {
			t.Fatalf("created_at = %v, want %v", got.CreatedAt, createdAt)
		}
	}
}
