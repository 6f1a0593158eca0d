// Package session maintains the local copy of the researcher's sessions and
// which one is selected as the context for analysis calls.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/mediq-health/mediq/internal/api"
	"github.com/mediq-health/mediq/internal/database"
)

// API is the facade surface the store needs.
type API interface {
	ListSessions(ctx context.Context, statusFilter string) (*api.SessionList, error)
	CreateSession(ctx context.Context, draft api.SessionCreate) (*api.ResearchSession, error)
}

// Store holds the session list and active selection in memory, mirrored to the
// local database so the selection survives across invocations.
type Store struct {
	client API
	db     *database.DB

	mu       sync.Mutex
	sessions []api.ResearchSession
	active   *api.ResearchSession
}

// NewStore creates a Store preloaded from the local cache.
func NewStore(client API, db *database.DB) (*Store, error) {
	s := &Store{client: client, db: db}

	cached, err := db.GetCachedSessions()
	if err != nil {
		return nil, fmt.Errorf("loading session cache: %w", err)
	}
	s.sessions = cached

	activeID, err := db.GetActiveSessionID()
	if err != nil {
		return nil, fmt.Errorf("loading active session: %w", err)
	}
	for i := range cached {
		if cached[i].ID == activeID {
			s.active = &cached[i]
			break
		}
	}

	return s, nil
}

// Fetch loads all sessions from the API and replaces the local list. When no
// session is selected yet, the first returned session becomes active; an
// existing selection is never changed by a fetch.
func (s *Store) Fetch(ctx context.Context) error {
	list, err := s.client.ListSessions(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.ReplaceCachedSessions(list.Sessions); err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	s.sessions = list.Sessions
	if s.active == nil && len(list.Sessions) > 0 {
		s.active = &s.sessions[0]
		if err := s.db.SetActiveSessionID(s.active.ID); err != nil {
			return fmt.Errorf("saving active session: %w", err)
		}
	} else if s.active != nil {
		// Re-point the selection at the freshly fetched copy when present.
		for i := range s.sessions {
			if s.sessions[i].ID == s.active.ID {
				s.active = &s.sessions[i]
				break
			}
		}
	}

	return nil
}

// Create creates a session via the API, prepends it (newest first), and
// unconditionally makes it the active session.
func (s *Store) Create(ctx context.Context, draft api.SessionCreate) (*api.ResearchSession, error) {
	created, err := s.client.CreateSession(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := append([]api.ResearchSession{*created}, s.sessions...)
	if err := s.db.ReplaceCachedSessions(updated); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := s.db.SetActiveSessionID(created.ID); err != nil {
		return nil, fmt.Errorf("saving active session: %w", err)
	}

	s.sessions = updated
	s.active = &s.sessions[0]
	return created, nil
}

// SetActive selects a session locally. No network call is made.
func (s *Store) SetActive(session api.ResearchSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.SetActiveSessionID(session.ID); err != nil {
		return fmt.Errorf("saving active session: %w", err)
	}
	s.active = &session
	return nil
}

// SetActiveByID selects a session from the local list by id.
func (s *Store) SetActiveByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].ID == id {
			if err := s.db.SetActiveSessionID(id); err != nil {
				return fmt.Errorf("saving active session: %w", err)
			}
			s.active = &s.sessions[i]
			return nil
		}
	}
	return fmt.Errorf("session %s not found; run 'mediq sessions list' to refresh", id)
}

// Active returns the currently selected session, or nil when none is selected.
func (s *Store) Active() *api.ResearchSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}
	copied := *s.active
	return &copied
}

// Sessions returns a copy of the local session list.
func (s *Store) Sessions() []api.ResearchSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]api.ResearchSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}
