package database

import (
	"path/filepath"
	"testing"

	"github.com/mediq-health/mediq/internal/api"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func testSession(id, title string) api.ResearchSession {
	return api.ResearchSession{
		ID:              id,
		ResearcherID:    "r1",
		Title:           title,
		Purpose:         "test purpose",
		Status:          api.StatusActive,
		RequestedFields: []string{"age", "bp"},
		CreatedAt:       "2026-08-01T00:00:00Z",
		UpdatedAt:       "2026-08-01T00:00:00Z",
	}
}

func TestReplaceAndGetCachedSessions(t *testing.T) {
	db := openTestDB(t)

	sessions := []api.ResearchSession{testSession("s1", "Study A"), testSession("s2", "Study B")}
	if err := db.ReplaceCachedSessions(sessions); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := db.GetCachedSessions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(got))
	}
	if got[0].ID != "s1" || got[1].ID != "s2" {
		t.Errorf("expected stored order preserved, got %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Title != "Study A" || len(got[0].RequestedFields) != 2 {
		t.Errorf("expected session payload to round-trip, got %+v", got[0])
	}
}

func TestReplaceCachedSessionsOverwrites(t *testing.T) {
	db := openTestDB(t)

	db.ReplaceCachedSessions([]api.ResearchSession{testSession("s1", "Study A")})
	db.ReplaceCachedSessions([]api.ResearchSession{testSession("s3", "Study C")})

	got, _ := db.GetCachedSessions()
	if len(got) != 1 || got[0].ID != "s3" {
		t.Errorf("expected cache replaced, got %+v", got)
	}
}

func TestGetCachedSession(t *testing.T) {
	db := openTestDB(t)
	db.ReplaceCachedSessions([]api.ResearchSession{testSession("s1", "Study A")})

	s, err := db.GetCachedSession("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s == nil || s.Title != "Study A" {
		t.Errorf("expected cached session, got %+v", s)
	}

	missing, err := db.GetCachedSession("nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for uncached session")
	}
}

func TestActiveSessionID(t *testing.T) {
	db := openTestDB(t)

	id, err := db.GetActiveSessionID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "" {
		t.Errorf("expected empty selection on new db, got %q", id)
	}

	db.SetActiveSessionID("s1")
	db.SetActiveSessionID("s2")

	id, _ = db.GetActiveSessionID()
	if id != "s2" {
		t.Errorf("expected 's2', got %q", id)
	}

	db.ClearActiveSessionID()
	id, _ = db.GetActiveSessionID()
	if id != "" {
		t.Errorf("expected cleared selection, got %q", id)
	}
}

func TestInsertAndGetRun(t *testing.T) {
	db := openTestDB(t)

	run := AnalysisRun{
		ID:           "run-1",
		SessionID:    "s1",
		DatasetID:    "ds1",
		Kind:         "histogram",
		Params:       ptr(`{"DatasetID":"ds1"}`),
		Result:       `{"bins":[]}`,
		BodyMarkdown: "## Histogram\n",
	}
	if err := db.InsertRun(run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := db.GetRun("run-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Kind != "histogram" || got.DatasetID != "ds1" {
		t.Errorf("unexpected run: %+v", got)
	}
	if got.CreatedAt == nil {
		t.Error("expected created_at to be set")
	}

	missing, err := db.GetRun("nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown run")
	}
}

func TestGetRecentRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)

	for _, id := range []string{"a", "b", "c"} {
		db.InsertRun(AnalysisRun{ID: id, SessionID: "s1", DatasetID: "ds1", Kind: "summary", Result: "[]", BodyMarkdown: "x"})
	}

	runs, err := db.GetRecentRuns(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "c" {
		t.Errorf("expected newest run first, got %q", runs[0].ID)
	}
}

func TestGetRunsForSession(t *testing.T) {
	db := openTestDB(t)
	db.InsertRun(AnalysisRun{ID: "a", SessionID: "s1", DatasetID: "ds1", Kind: "summary", Result: "[]", BodyMarkdown: "x"})
	db.InsertRun(AnalysisRun{ID: "b", SessionID: "s2", DatasetID: "ds1", Kind: "unique", Result: "{}", BodyMarkdown: "y"})

	runs, err := db.GetRunsForSession("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "a" {
		t.Errorf("unexpected runs: %+v", runs)
	}
}

func TestToggles(t *testing.T) {
	db := openTestDB(t)

	missing, err := db.GetToggle("share_lab_results")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unset toggle")
	}

	db.SetToggle("share_lab_results", true)
	db.SetToggle("share_medications", false)
	db.SetToggle("share_lab_results", false)

	got, _ := db.GetToggle("share_lab_results")
	if got == nil || got.Enabled {
		t.Errorf("expected toggle off after update, got %+v", got)
	}

	all, err := db.ListToggles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 toggles, got %d", len(all))
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	db.ReplaceCachedSessions([]api.ResearchSession{testSession("s1", "Study A")})
	db.SetActiveSessionID("s1")
	db.InsertRun(AnalysisRun{ID: "a", SessionID: "s1", DatasetID: "ds1", Kind: "summary", Result: "[]", BodyMarkdown: "x"})
	db.SetToggle("share_lab_results", true)

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.CachedSessions != 1 {
		t.Errorf("expected 1 cached session, got %d", stats.CachedSessions)
	}
	if stats.ActiveSessionID != "s1" {
		t.Errorf("expected active 's1', got %q", stats.ActiveSessionID)
	}
	if stats.AnalysisRuns != 1 {
		t.Errorf("expected 1 run, got %d", stats.AnalysisRuns)
	}
	if stats.LastRunAt == "" {
		t.Error("expected last run timestamp")
	}
	if stats.EnabledToggles != 1 {
		t.Errorf("expected 1 enabled toggle, got %d", stats.EnabledToggles)
	}
}
