package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

// Repository stores snapshots.
type Repository interface {
	Save(ctx context.Context, s *Snapshot) error
	Get(ctx context.Context, id string) (*Snapshot, error)
	Latest(ctx context.Context) (*Snapshot, error)
	List(ctx context.Context, limit int) ([]Snapshot, error)
	Delete(ctx context.Context, id string) error
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}

// SQLiteRepository implements Repository using SQLite.
//
// Device states are stored as a CBOR blob in the snapshots table; the profile,
// label and creation time are plain columns so listings don't decode payloads.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite snapshot repository.
//
// Parameters:
//   - db: Open SQLite connection with the snapshots table migrated
//
// Returns:
//   - *SQLiteRepository: Repository instance ready for use
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save inserts a snapshot. An empty ID or zero CreatedAt is filled in.
func (r *SQLiteRepository) Save(ctx context.Context, s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot is required")
	}
	if s.Profile == "" {
		return fmt.Errorf("snapshot profile is required")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	blob, err := Encode(s.Profile, s.Devices)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO snapshots (id, profile, label, payload, created_at) VALUES (?, ?, ?, ?, ?)",
		s.ID, s.Profile, s.Label, blob, s.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

// Get returns the snapshot with the given ID, or ErrSnapshotNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, profile, label, payload, created_at FROM snapshots WHERE id = ?", id)
	return scanFull(row)
}

// Latest returns the most recently created snapshot, or ErrSnapshotNotFound.
func (r *SQLiteRepository) Latest(ctx context.Context) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, profile, label, payload, created_at FROM snapshots ORDER BY created_at DESC, id DESC LIMIT 1")
	return scanFull(row)
}

// List returns snapshot headers, newest first, without device states.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - limit: Maximum entries to return (default 20, max 500)
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, profile, label, created_at FROM snapshots ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var created int64
		if err := rows.Scan(&s.ID, &s.Profile, &s.Label, &created); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		s.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return out, nil
}

// Delete removes a snapshot. Deleting an unknown ID returns ErrSnapshotNotFound.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

// Prune deletes snapshots created before olderThan and reports how many went.
func (r *SQLiteRepository) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM snapshots WHERE created_at < ?", olderThan.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}

func scanFull(row *sql.Row) (*Snapshot, error) {
	var s Snapshot
	var blob []byte
	var created int64
	if err := row.Scan(&s.ID, &s.Profile, &s.Label, &blob, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	_, devices, err := Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", s.ID, err)
	}
	s.Devices = devices
	s.CreatedAt = time.Unix(0, created).UTC()
	return &s, nil
}
