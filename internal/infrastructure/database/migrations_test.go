package database

import (
	"context"
	"io/fs"
	"testing"
	"testing/fstest"
)

var testMigrations = fstest.MapFS{
	"sql/20261001_090000_create_rigs.up.sql":   {Data: []byte("CREATE TABLE rigs (id TEXT PRIMARY KEY);")},
	"sql/20261001_090000_create_rigs.down.sql": {Data: []byte("DROP TABLE rigs;")},
	"sql/20261002_090000_add_notes.up.sql":     {Data: []byte("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT);")},
	"sql/20261002_090000_add_notes.down.sql":   {Data: []byte("DROP TABLE notes;")},
	"sql/README.md":                            {Data: []byte("ignored")},
}

// useMigrations swaps the package-level migration source for the test.
func useMigrations(t *testing.T, fsys fs.FS, dir string) {
	t.Helper()
	origFS, origDir := MigrationsFS, MigrationsDir
	t.Cleanup(func() {
		MigrationsFS, MigrationsDir = origFS, origDir
	})
	MigrationsFS, MigrationsDir = fsys, dir
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name,
	).Scan(&count)
	if err != nil {
		t.Fatalf("sqlite_master query error: %v", err)
	}
	return count == 1
}

func TestMigrate(t *testing.T) {
	useMigrations(t, testMigrations, "sql")
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if !tableExists(t, db, "rigs") || !tableExists(t, db, "notes") {
		t.Fatal("migrations did not create tables")
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 2 || len(pending) != 0 {
		t.Errorf("applied=%d pending=%d, want 2 and 0", len(applied), len(pending))
	}
	if applied[0].Version != "20261001_090000" || applied[0].AppliedAt.IsZero() {
		t.Errorf("applied[0] = %+v", applied[0])
	}

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrateDown(t *testing.T) {
	useMigrations(t, testMigrations, "sql")
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.MigrateDown(ctx); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}

	if tableExists(t, db, "notes") {
		t.Error("notes should have been dropped")
	}
	if !tableExists(t, db, "rigs") {
		t.Error("rigs should remain")
	}

	applied, pending, _ := db.GetMigrationStatus(ctx)
	if len(applied) != 1 || len(pending) != 1 {
		t.Errorf("applied=%d pending=%d, want 1 and 1", len(applied), len(pending))
	}
}

func TestMigrateDown_NothingApplied(t *testing.T) {
	useMigrations(t, testMigrations, "sql")
	db := openTestDB(t)

	if err := db.MigrateDown(context.Background()); err != nil {
		t.Errorf("MigrateDown() error = %v", err)
	}
}

func TestMigrate_FailureRollsBackThatMigration(t *testing.T) {
	useMigrations(t, fstest.MapFS{
		"20261001_090000_good.up.sql": {Data: []byte("CREATE TABLE good (id INTEGER);")},
		"20261002_090000_bad.up.sql":  {Data: []byte("CREATE TABLE half (id INTEGER); NOT SQL;")},
	}, ".")
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err == nil {
		t.Fatal("Migrate() expected error")
	}
	if !tableExists(t, db, "good") {
		t.Error("earlier migration should stay committed")
	}

	applied, pending, _ := db.GetMigrationStatus(ctx)
	if len(applied) != 1 || len(pending) != 1 {
		t.Errorf("applied=%d pending=%d, want 1 and 1", len(applied), len(pending))
	}
}

func TestMigrate_NoMigrations(t *testing.T) {
	useMigrations(t, nil, ".")
	db := openTestDB(t)

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() with no migrations error = %v", err)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion string
		wantName    string
		wantIsUp    bool
		wantOk      bool
	}{
		{"20261015_120000_initial_schema.up.sql", "20261015_120000", "initial_schema", true, true},
		{"20261015_120000_initial_schema.down.sql", "20261015_120000", "initial_schema", false, true},
		{"20261015_120000_add_label_to_snapshots.up.sql", "20261015_120000", "add_label_to_snapshots", true, true},
		{"readme.txt", "", "", false, false},
		{"20261015_120000_initial_schema.sql", "", "", false, false},
		{"invalid.up.sql", "", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, isUp, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion || isUp != tt.wantIsUp {
				t.Errorf("got (%q, %v), want (%q, %v)", version, isUp, tt.wantVersion, tt.wantIsUp)
			}
			if tt.wantIsUp && name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
		})
	}
}
