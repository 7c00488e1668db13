package db

import (
	"path/filepath"
	"testing"
)

func TestOpenAndMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "omac.db")

	database, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	// All tables present after migration
	for _, table := range []string{"figures", "photos", "wishlist", "schema_migrations"} {
		var count int
		err := database.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		if err != nil {
			t.Fatalf("failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("expected table %s to exist", table)
		}
	}

	// wave column added by the second migration
	var waveCount int
	err = database.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('figures') WHERE name='wave'`).Scan(&waveCount)
	if err != nil {
		t.Fatalf("failed to check wave column: %v", err)
	}
	if waveCount != 1 {
		t.Error("expected figures.wave column after migrations")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "omac.db")

	database, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		t.Fatalf("first Migrate failed: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	applied, pending, err := database.MigrationStatus()
	if err != nil {
		t.Fatalf("MigrationStatus failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending migrations, got %v", pending)
	}
	if len(applied) == 0 {
		t.Error("expected applied migrations")
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "omac.db")

	database, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	_, err = database.Exec(`
		INSERT INTO photos (uuid, figure_uuid, file_path)
		VALUES ('p1', 'no-such-figure', 'photos/x.jpg')
	`)
	if err == nil {
		t.Error("expected foreign key violation inserting orphan photo")
	}
}
