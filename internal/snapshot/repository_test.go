package snapshot

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/nerrad567/oxsim-core/internal/infrastructure/database"
	_ "github.com/nerrad567/oxsim-core/migrations" // registers the schema
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "snapshots.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewSQLiteRepository(db.DB)
}

func TestSQLiteRepository_SaveGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	s, _ := Capture(busyEngine(t, "oculus_quest_2"), "grip test")
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Profile != s.Profile || got.Label != s.Label {
		t.Errorf("Get() = %s / %s", got.Profile, got.Label)
	}
	if !got.CreatedAt.Equal(s.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, s.CreatedAt)
	}
	if !reflect.DeepEqual(got.Devices, s.Devices) {
		t.Error("stored devices differ from captured")
	}
}

func TestSQLiteRepository_SaveFillsDefaults(t *testing.T) {
	repo := newTestRepository(t)

	s := &Snapshot{Profile: "htc_vive"}
	if err := repo.Save(context.Background(), s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if s.ID == "" || s.CreatedAt.IsZero() {
		t.Errorf("Save() left ID=%q CreatedAt=%v", s.ID, s.CreatedAt)
	}

	if err := repo.Save(context.Background(), &Snapshot{}); err == nil {
		t.Error("Save() without profile should fail")
	}
}

func TestSQLiteRepository_NotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Get() error = %v", err)
	}
	if _, err := repo.Latest(ctx); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Latest() error = %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestSQLiteRepository_LatestListDeletePrune(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i, name := range []string{"oculus_quest_2", "htc_vive", "valve_index"} {
		s := &Snapshot{Profile: name, Label: name, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
		ids = append(ids, s.ID)
	}

	latest, err := repo.Latest(ctx)
	if err != nil || latest.Profile != "valve_index" {
		t.Fatalf("Latest() = %v, %v", latest, err)
	}

	list, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].Profile != "valve_index" || list[1].Profile != "htc_vive" {
		t.Errorf("List(2) = %+v", list)
	}
	if list[0].Devices != nil {
		t.Error("List() should not decode device states")
	}

	if err := repo.Delete(ctx, ids[2]); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	latest, _ = repo.Latest(ctx)
	if latest.Profile != "htc_vive" {
		t.Errorf("Latest() after delete = %s", latest.Profile)
	}

	n, err := repo.Prune(ctx, base.Add(30*time.Minute))
	if err != nil || n != 1 {
		t.Errorf("Prune() = %d, %v; want 1", n, err)
	}
	list, _ = repo.List(ctx, 0)
	if len(list) != 1 || list[0].ID != ids[1] {
		t.Errorf("List() after prune = %+v", list)
	}
}
