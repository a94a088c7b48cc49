package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-api/model"
)

type memoryEntry struct {
	board     *model.Board
	expiresAt time.Time
}

// MemoryStore keeps boards in a map. A zero TTL disables expiration.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore returns an empty store whose records expire ttl after their last save.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return NewMemoryStoreWithClock(ttl, time.Now)
}

// NewMemoryStoreWithClock is NewMemoryStore with an explicit clock.
func NewMemoryStoreWithClock(ttl time.Duration, now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (s *MemoryStore) live(e memoryEntry, now time.Time) bool {
	return e.expiresAt.IsZero() || now.Before(e.expiresAt)
}

// Get returns a copy of the stored board.
func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || !s.live(e, s.now()) {
		return nil, errors.Wrapf(ErrNotFound, "[MemoryStore.Get] id=%s", id)
	}
	return e.board.Clone(), nil
}

// Save stores a copy of b.
func (s *MemoryStore) Save(ctx context.Context, b *model.Board) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if b == nil || strings.TrimSpace(b.ID) == "" {
		return "", errors.New("[MemoryStore.Save] board id is required")
	}

	e := memoryEntry{board: b.Clone()}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[b.ID] = e
	s.mu.Unlock()

	return b.ID, nil
}

// Delete removes the board if present and unexpired.
func (s *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return false, nil
	}
	delete(s.entries, id)
	return s.live(e, s.now()), nil
}

// ListIDs returns unexpired IDs in lexical order.
func (s *MemoryStore) ListIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	s.mu.RLock()
	ids := make([]string, 0, len(s.entries))
	for id, e := range s.entries {
		if s.live(e, now) {
			ids = append(ids, id)
		}
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids, nil
}

// Sweep drops expired entries and reports how many were removed.
func (s *MemoryStore) Sweep(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if !s.live(e, now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}
