package database

import "database/sql"

// InsertRun records a completed analysis.
func (db *DB) InsertRun(run AnalysisRun) error {
	_, err := db.conn.Exec(
		`INSERT INTO analysis_runs (id, session_id, dataset_id, kind, params, result, body_markdown)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SessionID, run.DatasetID, run.Kind, run.Params, run.Result, run.BodyMarkdown,
	)
	return err
}

// GetRun returns a single run by id, or nil if not found.
func (db *DB) GetRun(id string) (*AnalysisRun, error) {
	row := db.conn.QueryRow(
		`SELECT id, session_id, dataset_id, kind, params, result, body_markdown, created_at
		 FROM analysis_runs WHERE id = ?`, id,
	)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetRecentRuns returns the most recent runs, newest first.
func (db *DB) GetRecentRuns(limit int) ([]AnalysisRun, error) {
	rows, err := db.conn.Query(
		`SELECT id, session_id, dataset_id, kind, params, result, body_markdown, created_at
		 FROM analysis_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRunsForSession returns all runs recorded against a session, newest first.
func (db *DB) GetRunsForSession(sessionID string) ([]AnalysisRun, error) {
	rows, err := db.conn.Query(
		`SELECT id, session_id, dataset_id, kind, params, result, body_markdown, created_at
		 FROM analysis_runs WHERE session_id = ? ORDER BY created_at DESC, rowid DESC`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*AnalysisRun, error) {
	var run AnalysisRun
	err := row.Scan(&run.ID, &run.SessionID, &run.DatasetID, &run.Kind,
		&run.Params, &run.Result, &run.BodyMarkdown, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
