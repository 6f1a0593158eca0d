package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mediq-health/mediq/internal/api"
	"github.com/mediq-health/mediq/internal/database"
)

// mockAPI implements API for testing.
type mockAPI struct {
	sessions  []api.ResearchSession
	created   *api.ResearchSession
	listErr   error
	createErr error

	listCalls   int
	createCalls int
}

func (m *mockAPI) ListSessions(_ context.Context, _ string) (*api.SessionList, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return &api.SessionList{Sessions: m.sessions, Total: len(m.sessions)}, nil
}

func (m *mockAPI) CreateSession(_ context.Context, draft api.SessionCreate) (*api.ResearchSession, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	created := *m.created
	created.Title = draft.Title
	return &created, nil
}

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func session(id, title string) api.ResearchSession {
	return api.ResearchSession{ID: id, Title: title, Purpose: "p", Status: api.StatusActive}
}

func newTestStore(t *testing.T, client *mockAPI) *Store {
	t.Helper()
	store, err := NewStore(client, openTestDB(t))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestFetchSelectsFirstWhenNoneActive(t *testing.T) {
	client := &mockAPI{sessions: []api.ResearchSession{session("a", "A"), session("b", "B")}}
	store := newTestStore(t, client)

	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active := store.Active()
	if active == nil || active.ID != "a" {
		t.Errorf("expected first session selected, got %+v", active)
	}
	if len(store.Sessions()) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(store.Sessions()))
	}
}

func TestFetchEmptyLeavesNoSelection(t *testing.T) {
	client := &mockAPI{}
	store := newTestStore(t, client)

	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Active() != nil {
		t.Errorf("expected no selection on empty list, got %+v", store.Active())
	}
}

func TestFetchDoesNotResetExistingSelection(t *testing.T) {
	client := &mockAPI{sessions: []api.ResearchSession{session("a", "A"), session("b", "B")}}
	store := newTestStore(t, client)

	store.Fetch(context.Background())
	if err := store.SetActiveByID("b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second fetch must not move the selection back to the first session.
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	active := store.Active()
	if active == nil || active.ID != "b" {
		t.Errorf("expected selection to stay 'b', got %+v", active)
	}
}

func TestFetchErrorLeavesStateUntouched(t *testing.T) {
	client := &mockAPI{sessions: []api.ResearchSession{session("a", "A")}}
	store := newTestStore(t, client)
	store.Fetch(context.Background())

	client.listErr = errors.New("boom")
	err := store.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	if len(store.Sessions()) != 1 {
		t.Errorf("expected prior list kept, got %d sessions", len(store.Sessions()))
	}
	if active := store.Active(); active == nil || active.ID != "a" {
		t.Errorf("expected prior selection kept, got %+v", active)
	}
}

func TestCreatePrependsAndOverridesSelection(t *testing.T) {
	created := session("c", "C")
	client := &mockAPI{
		sessions: []api.ResearchSession{session("a", "A"), session("b", "B")},
		created:  &created,
	}
	store := newTestStore(t, client)
	store.Fetch(context.Background())

	got, err := store.Create(context.Background(), api.SessionCreate{Title: "C", Purpose: "x", RequestedFields: []string{"age"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "c" {
		t.Errorf("expected created session, got %+v", got)
	}

	sessions := store.Sessions()
	if len(sessions) != 3 || sessions[0].ID != "c" {
		t.Errorf("expected newest first, got %+v", sessions)
	}
	if active := store.Active(); active == nil || active.ID != "c" {
		t.Errorf("expected created session selected, got %+v", active)
	}
}

func TestCreateErrorLeavesStateUntouched(t *testing.T) {
	client := &mockAPI{
		sessions:  []api.ResearchSession{session("a", "A")},
		createErr: errors.New("boom"),
	}
	store := newTestStore(t, client)
	store.Fetch(context.Background())

	_, err := store.Create(context.Background(), api.SessionCreate{Title: "C", Purpose: "x"})
	if err == nil {
		t.Fatal("expected error")
	}

	if len(store.Sessions()) != 1 {
		t.Errorf("expected prior list kept, got %d", len(store.Sessions()))
	}
	if active := store.Active(); active == nil || active.ID != "a" {
		t.Errorf("expected prior selection kept, got %+v", active)
	}
}

func TestSetActiveByIDUnknown(t *testing.T) {
	client := &mockAPI{sessions: []api.ResearchSession{session("a", "A")}}
	store := newTestStore(t, client)
	store.Fetch(context.Background())

	if err := store.SetActiveByID("missing"); err == nil {
		t.Error("expected error for unknown session id")
	}
}

func TestSelectionSurvivesReload(t *testing.T) {
	db := openTestDB(t)
	client := &mockAPI{sessions: []api.ResearchSession{session("a", "A"), session("b", "B")}}

	store, err := NewStore(client, db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	store.Fetch(context.Background())
	store.SetActiveByID("b")

	// A new store over the same database sees the persisted selection.
	reloaded, err := NewStore(client, db)
	if err != nil {
		t.Fatalf("failed to reload store: %v", err)
	}
	if active := reloaded.Active(); active == nil || active.ID != "b" {
		t.Errorf("expected persisted selection 'b', got %+v", active)
	}
	if len(reloaded.Sessions()) != 2 {
		t.Errorf("expected cached sessions on reload, got %d", len(reloaded.Sessions()))
	}
	if client.listCalls != 1 {
		t.Errorf("reload must not hit the network, got %d list calls", client.listCalls)
	}
}
