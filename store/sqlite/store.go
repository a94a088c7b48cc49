// Package sqlite provides a SQLite-backed board store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/sheikhrachel/go-gol-api/model"
	"github.com/sheikhrachel/go-gol-api/store"
	"github.com/sheikhrachel/go-gol-api/store/sqlite/migrations"
)

// Store persists boards in SQLite. An expires_at of 0 means the row never expires.
type Store struct {
	sqlDB *sql.DB
	ttl   time.Duration
	now   func() time.Time
}

var _ store.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithTTL sets how long a board lives after its last save.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock overrides the wall clock used for expiration.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// formatCreatedAt keeps nanosecond precision.
func formatCreatedAt(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func parseCreatedAt(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

// Open opens a SQLite board store at path and applies the embedded schema.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("[sqlite.Open] storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "[sqlite.Open] open sqlite db: %s", cleanPath)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrapf(err, "[sqlite.Open] ping sqlite db: %s", cleanPath)
	}
	if err := applySchema(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	s := &Store{sqlDB: sqlDB, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func applySchema(sqlDB *sql.DB) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return errors.Wrap(err, "[sqlite.applySchema] read migrations dir")
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return errors.Wrapf(err, "[sqlite.applySchema] read migration %s", file)
		}
		if _, err := sqlDB.Exec(string(content)); err != nil {
			return errors.Wrapf(err, "[sqlite.applySchema] exec migration %s", file)
		}
	}
	return nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the board with id, or store.ErrNotFound if it is missing or expired.
func (s *Store) Get(ctx context.Context, id string) (*model.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, grid, generation, created_at
		   FROM boards
		  WHERE id = ? AND (expires_at = 0 OR expires_at > ?)`,
		id,
		toMillis(s.now()),
	)

	var (
		b         model.Board
		payload   string
		createdAt string
	)
	if err := row.Scan(&b.ID, &payload, &b.Generation, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(store.ErrNotFound, "[sqlite.Get] id=%s", id)
		}
		return nil, errors.Wrapf(err, "[sqlite.Get] query board %s", id)
	}
	if err := json.Unmarshal([]byte(payload), &b.Grid); err != nil {
		return nil, errors.Wrapf(err, "[sqlite.Get] unmarshal grid for board %s", id)
	}
	created, err := parseCreatedAt(createdAt)
	if err != nil {
		return nil, errors.Wrapf(err, "[sqlite.Get] parse created_at for board %s", id)
	}
	b.CreatedAt = created

	return &b, nil
}

// Save upserts b and restarts its expiration clock.
func (s *Store) Save(ctx context.Context, b *model.Board) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if b == nil || strings.TrimSpace(b.ID) == "" {
		return "", errors.New("[sqlite.Save] board id is required")
	}

	payload, err := json.Marshal(b.Grid)
	if err != nil {
		return "", errors.Wrapf(err, "[sqlite.Save] marshal grid for board %s", b.ID)
	}

	now := s.now()
	var expiresAt int64
	if s.ttl > 0 {
		expiresAt = toMillis(now.Add(s.ttl))
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO boards (id, grid, width, height, generation, created_at, updated_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   grid = excluded.grid,
		   width = excluded.width,
		   height = excluded.height,
		   generation = excluded.generation,
		   created_at = excluded.created_at,
		   updated_at = excluded.updated_at,
		   expires_at = excluded.expires_at`,
		b.ID,
		string(payload),
		b.Width(),
		b.Height(),
		b.Generation,
		formatCreatedAt(b.CreatedAt),
		toMillis(now),
		expiresAt,
	)
	if err != nil {
		return "", errors.Wrapf(err, "[sqlite.Save] upsert board %s", b.ID)
	}
	return b.ID, nil
}

// Delete removes an unexpired board and reports whether one existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM boards WHERE id = ? AND (expires_at = 0 OR expires_at > ?)`,
		id,
		toMillis(s.now()),
	)
	if err != nil {
		return false, errors.Wrapf(err, "[sqlite.Delete] delete board %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "[sqlite.Delete] rows affected for board %s", id)
	}
	return n > 0, nil
}

// ListIDs returns unexpired board IDs in lexical order.
func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id FROM boards WHERE expires_at = 0 OR expires_at > ? ORDER BY id`,
		toMillis(s.now()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[sqlite.ListIDs] query board ids")
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "[sqlite.ListIDs] scan board id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[sqlite.ListIDs] iterate board ids")
	}
	return ids, nil
}

// Sweep deletes expired rows and reports how many were removed.
func (s *Store) Sweep(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM boards WHERE expires_at != 0 AND expires_at <= ?`,
		toMillis(s.now()),
	)
	if err != nil {
		return 0, errors.Wrap(err, "[sqlite.Sweep] delete expired boards")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "[sqlite.Sweep] rows affected")
	}
	return int(n), nil
}
