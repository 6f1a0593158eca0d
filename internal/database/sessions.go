package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mediq-health/mediq/internal/api"
)

const activeSessionKey = "active_session_id"

// ReplaceCachedSessions replaces the local session cache with the given list,
// preserving its order.
func (db *DB) ReplaceCachedSessions(sessions []api.ResearchSession) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cached_sessions"); err != nil {
		return fmt.Errorf("clearing session cache: %w", err)
	}

	for i, s := range sessions {
		payload, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshaling session %s: %w", s.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO cached_sessions (id, title, status, position, payload) VALUES (?, ?, ?, ?, ?)`,
			s.ID, s.Title, string(s.Status), i, string(payload),
		)
		if err != nil {
			return fmt.Errorf("caching session %s: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

// GetCachedSessions returns all cached sessions in their stored order.
func (db *DB) GetCachedSessions() ([]api.ResearchSession, error) {
	rows, err := db.conn.Query("SELECT payload FROM cached_sessions ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []api.ResearchSession
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var s api.ResearchSession
		if err := json.Unmarshal([]byte(payload), &s); err != nil {
			return nil, fmt.Errorf("parsing cached session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// GetCachedSession returns one cached session by id, or nil if not cached.
func (db *DB) GetCachedSession(id string) (*api.ResearchSession, error) {
	var payload string
	err := db.conn.QueryRow("SELECT payload FROM cached_sessions WHERE id = ?", id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s api.ResearchSession
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return nil, fmt.Errorf("parsing cached session: %w", err)
	}
	return &s, nil
}

// SetActiveSessionID persists the locally selected session.
func (db *DB) SetActiveSessionID(id string) error {
	_, err := db.conn.Exec(
		`INSERT INTO workspace_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		activeSessionKey, id,
	)
	return err
}

// GetActiveSessionID returns the persisted selection, or "" if none.
func (db *DB) GetActiveSessionID() (string, error) {
	var id string
	err := db.conn.QueryRow(
		"SELECT value FROM workspace_state WHERE key = ?", activeSessionKey,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// ClearActiveSessionID removes the persisted selection.
func (db *DB) ClearActiveSessionID() error {
	_, err := db.conn.Exec("DELETE FROM workspace_state WHERE key = ?", activeSessionKey)
	return err
}
