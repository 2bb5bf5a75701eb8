package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/go-libsql"
)

func Migrate(db *sql.DB) error {
	schema := []string{
		// runs: one row per completed training run
		`CREATE TABLE IF NOT EXISTS runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset     TEXT NOT NULL,
			model_path  TEXT NOT NULL,
			checksum    TEXT NOT NULL DEFAULT '',
			rows        INTEGER NOT NULL DEFAULT 0,
			train_rows  INTEGER NOT NULL DEFAULT 0,
			test_rows   INTEGER NOT NULL DEFAULT 0,
			features    INTEGER NOT NULL DEFAULT 0,
			accuracy    REAL,
			auc         REAL,
			f1          REAL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
		// meta: mtime and checksum of the dataset the current model was trained on
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			mtime INTEGER NOT NULL,
			checksum TEXT NOT NULL DEFAULT ''
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration statement: %w", err)
		}
	}

	// databases created before meta.checksum existed
	_, err := db.Exec(`ALTER TABLE meta ADD COLUMN checksum TEXT NOT NULL DEFAULT ''`)
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
		return fmt.Errorf("failed to add meta.checksum: %w", err)
	}

	return nil
}
