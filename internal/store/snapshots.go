package store

import (
	"database/sql"
	"fmt"
	"time"
)

// GetSnapshot returns the payload stored under key. The second return is
// false when no snapshot exists for the key.
func (db *DB) GetSnapshot(key string) (string, bool, error) {
	var payload string
	err := db.QueryRow(`SELECT payload FROM snapshots WHERE key = ?`, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get snapshot %q: %w", key, err)
	}
	return payload, true, nil
}

// SetSnapshot stores payload under key, replacing any previous value.
func (db *DB) SetSnapshot(key, payload string) error {
	_, err := db.Exec(`
		INSERT INTO snapshots (key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, key, payload, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("set snapshot %q: %w", key, err)
	}
	return nil
}

// SetSnapshots writes all key/payload pairs in a single transaction, so one
// save cycle's keys land together or not at all.
func (db *DB) SetSnapshots(payloads map[string]string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	for key, payload := range payloads {
		if _, err := tx.Exec(`
			INSERT INTO snapshots (key, payload, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
		`, key, payload, now); err != nil {
			return fmt.Errorf("set snapshot %q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot tx: %w", err)
	}
	return nil
}

// DeleteSnapshot removes the snapshot under key, if any.
func (db *DB) DeleteSnapshot(key string) error {
	if _, err := db.Exec(`DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete snapshot %q: %w", key, err)
	}
	return nil
}
