package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// staticToken implements TokenSource for tests.
type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, staticToken(token), 5*time.Second)
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(SessionList{})
	}, "tok-1")

	if _, err := client.ListSessions(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	var hasAuth bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth, hasAuth = r.Header.Get("Authorization"), r.Header.Get("Authorization") != ""
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "t"})
	}, "")

	client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "x"})
	if hasAuth {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestLoginSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "jane@example.org" {
			t.Errorf("unexpected email %q", req.Email)
		}
		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: "tok-9",
			TokenType:   "bearer",
			ExpiresIn:   1800,
			Researcher:  ResearcherProfile{Email: "jane@example.org", FullName: "Jane Doe"},
		})
	}, "")

	tok, err := client.Login(context.Background(), LoginRequest{Email: "jane@example.org", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "tok-9" {
		t.Errorf("expected token 'tok-9', got %q", tok.AccessToken)
	}
	if tok.Researcher.FullName != "Jane Doe" {
		t.Errorf("expected researcher profile, got %+v", tok.Researcher)
	}
}

func TestLoginFailureCarriesDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
	}, "")

	_, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "bad"})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", apiErr.Status)
	}
	if apiErr.Detail != "Incorrect email or password" {
		t.Errorf("expected server detail, got %q", apiErr.Detail)
	}
}

func TestErrorWithoutDetailGetsGenericMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}, "")

	_, err := client.ListSessions(context.Background(), "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Detail != "request failed" {
		t.Errorf("expected generic detail, got %q", apiErr.Detail)
	}
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := New(srv.URL, staticToken(""), time.Second)

	_, err := client.ListSessions(context.Background(), "")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("transport failure must not surface as APIError")
	}
}

func TestListSessionsStatusFilter(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("status_filter")
		json.NewEncoder(w).Encode(SessionList{
			Sessions: []ResearchSession{{ID: "s1", Title: "Study A", Status: StatusActive}},
			Total:    1, Limit: 50,
		})
	}, "tok")

	list, err := client.ListSessions(context.Background(), "active")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "active" {
		t.Errorf("expected status_filter=active, got %q", gotQuery)
	}
	if len(list.Sessions) != 1 || list.Sessions[0].ID != "s1" {
		t.Errorf("unexpected sessions: %+v", list.Sessions)
	}
}

func TestCreateAndUpdateSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/sessions":
			var draft SessionCreate
			json.NewDecoder(r.Body).Decode(&draft)
			json.NewEncoder(w).Encode(ResearchSession{
				ID: "s1", Title: draft.Title, Purpose: draft.Purpose,
				RequestedFields: draft.RequestedFields, Status: StatusActive,
			})
		case r.Method == http.MethodPut && r.URL.Path == "/api/v1/sessions/s1":
			var patch SessionUpdate
			json.NewDecoder(r.Body).Decode(&patch)
			s := ResearchSession{ID: "s1", Title: "Study A", Status: StatusActive}
			if patch.Status != nil {
				s.Status = *patch.Status
			}
			json.NewEncoder(w).Encode(s)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}, "tok")

	created, err := client.CreateSession(context.Background(), SessionCreate{
		Title: "Study A", Purpose: "x", RequestedFields: []string{"age"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "s1" || created.Title != "Study A" {
		t.Errorf("unexpected session: %+v", created)
	}

	archived := StatusArchived
	updated, err := client.UpdateSession(context.Background(), "s1", SessionUpdate{Status: &archived})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusArchived {
		t.Errorf("expected archived status, got %s", updated.Status)
	}
}
