// Package api is a typed client for the MedIQ research API. Every call is a
// single round trip: no retries, no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// TokenSource provides the bearer token attached to outgoing requests.
// An empty string means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// APIError is a non-2xx response from the MedIQ API, carrying the server's
// detail message when one was provided.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Detail)
}

// Client issues requests against a single MedIQ API base URL.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// New creates a Client. timeout bounds each individual round trip.
func New(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends one JSON request and decodes the response into out (unless out is nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// decodeError extracts the FastAPI-style {"detail": "..."} message when present.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Detail: "request failed"}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &body) == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
	}
	return apiErr
}

// Login authenticates a researcher and returns a bearer token plus profile.
func (c *Client) Login(ctx context.Context, creds LoginRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", creds, &out); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &out, nil
}

// Signup registers a new researcher and returns a token plus profile.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", req, &out); err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}
	return &out, nil
}

// ListSessions returns the researcher's sessions, optionally filtered by status.
func (c *Client) ListSessions(ctx context.Context, statusFilter string) (*SessionList, error) {
	path := "/api/v1/sessions"
	if statusFilter != "" {
		path += "?status_filter=" + url.QueryEscape(statusFilter)
	}
	var out SessionList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSession creates a research session; the server assigns id and timestamps.
func (c *Client) CreateSession(ctx context.Context, draft SessionCreate) (*ResearchSession, error) {
	var out ResearchSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/sessions", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession fetches a single session by id.
func (c *Client) GetSession(ctx context.Context, id string) (*ResearchSession, error) {
	var out ResearchSession
	if err := c.do(ctx, http.MethodGet, "/api/v1/sessions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSession applies a partial update to a session.
func (c *Client) UpdateSession(ctx context.Context, id string, patch SessionUpdate) (*ResearchSession, error) {
	var out ResearchSession
	if err := c.do(ctx, http.MethodPut, "/api/v1/sessions/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
