package database

import "database/sql"

// SetToggle sets a consent demo toggle, creating it if needed.
func (db *DB) SetToggle(name string, enabled bool) error {
	_, err := db.conn.Exec(
		`INSERT INTO consent_toggles (name, enabled) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET enabled = excluded.enabled, updated_at = datetime('now')`,
		name, enabled,
	)
	return err
}

// GetToggle returns a toggle by name, or nil if it was never set.
func (db *DB) GetToggle(name string) (*ConsentToggle, error) {
	var t ConsentToggle
	err := db.conn.QueryRow(
		"SELECT name, enabled, updated_at FROM consent_toggles WHERE name = ?", name,
	).Scan(&t.Name, &t.Enabled, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListToggles returns all toggles ordered by name.
func (db *DB) ListToggles() ([]ConsentToggle, error) {
	rows, err := db.conn.Query("SELECT name, enabled, updated_at FROM consent_toggles ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var toggles []ConsentToggle
	for rows.Next() {
		var t ConsentToggle
		if err := rows.Scan(&t.Name, &t.Enabled, &t.UpdatedAt); err != nil {
			return nil, err
		}
		toggles = append(toggles, t)
	}
	return toggles, rows.Err()
}
