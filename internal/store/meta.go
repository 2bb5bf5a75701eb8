package store

import (
	"database/sql"
	"fmt"
	"os"
)

// MetaStore remembers the modification time and checksum of source files so
// callers can tell whether a file changed since it was last consumed.
type MetaStore struct {
	db *sql.DB
}

func NewMetaStore(db *sql.DB) *MetaStore {
	return &MetaStore{db: db}
}

// TouchMeta records the current mtime of filePath under key together with
// the checksum of the contents that were consumed.
func (m *MetaStore) TouchMeta(key string, filePath string, checksum string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("stat error for %s: %w", filePath, err)
	}

	mtime := info.ModTime().Unix()

	_, err = m.db.Exec(`
		INSERT OR REPLACE INTO meta (key, path, mtime, checksum)
		VALUES (?, ?, ?, ?)
	`, key, filePath, mtime, checksum)

	if err != nil {
		return fmt.Errorf("failed to update meta: %w", err)
	}

	return nil
}

// NeedsReload reports true when the file is missing or was never touched
// under key. It is also true when the row names another path or checksum, or
// the file is newer than the recorded mtime. An empty checksum always reloads.
func (m *MetaStore) NeedsReload(key string, filePath string, checksum string) bool {
	if checksum == "" {
		return true
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return true
	}
	currentMtime := info.ModTime().Unix()

	var storedPath, storedChecksum string
	var storedMtime int64
	err = m.db.QueryRow(`SELECT path, mtime, checksum FROM meta WHERE key = ?`, key).
		Scan(&storedPath, &storedMtime, &storedChecksum)
	if err != nil {
		return true
	}

	return storedPath != filePath || storedChecksum != checksum || currentMtime > storedMtime
}
