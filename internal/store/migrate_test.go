package store_test

import (
	"database/sql"
	"testing"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/trknhr/sentiment/internal/store"
)

func setupMigrateTestDB(t *testing.T) (*sql.DB, func()) {
	db, err := sql.Open("libsql", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)

	return db, func() {
		db.Close()
	}
}

func TestMigrate(t *testing.T) {
	db, cleanup := setupMigrateTestDB(t)
	defer cleanup()

	if err := store.Migrate(db); err != nil {
		t.Fatalf("initial migrate failed: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	expectedTables := []string{"runs", "meta"}

	for _, table := range expectedTables {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("expected table %s to exist: %v", table, err)
		} else if name != table {
			t.Errorf("expected table name %s, got %s", table, name)
		}
	}

	var index string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_runs_created_at'`).Scan(&index)
	if err != nil {
		t.Errorf("expected index idx_runs_created_at to exist: %v", err)
	}
}

func TestMigrate_AddsChecksumToExistingMeta(t *testing.T) {
	db, cleanup := setupMigrateTestDB(t)
	defer cleanup()

	_, err := db.Exec(`CREATE TABLE meta (key TEXT PRIMARY KEY, path TEXT NOT NULL, mtime INTEGER NOT NULL)`)
	if err != nil {
		t.Fatalf("failed to create legacy meta: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO meta (key, path, mtime) VALUES ('dataset', 'a.csv', 1)`); err != nil {
		t.Fatalf("failed to seed legacy meta: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	var checksum string
	if err := db.QueryRow(`SELECT checksum FROM meta WHERE key = 'dataset'`).Scan(&checksum); err != nil {
		t.Fatalf("expected checksum column: %v", err)
	}
	if checksum != "" {
		t.Errorf("checksum = %q, want empty", checksum)
	}
}
