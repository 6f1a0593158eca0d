// Package credentials persists the researcher's bearer token and profile
// between CLI invocations.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mediq-health/mediq/internal/api"
)

const fileName = "credentials.json"

// Credentials is the on-disk record written after a successful login or signup.
type Credentials struct {
	AccessToken string                 `json:"access_token"`
	TokenType   string                 `json:"token_type"`
	ExpiresAt   string                 `json:"expires_at"`
	Researcher  *api.ResearcherProfile `json:"researcher,omitempty"`
}

// Store reads and writes credentials under a data directory. It implements
// api.TokenSource.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{dir: dataDir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, fileName)
}

// Load returns the saved credentials, or nil if none exist.
func (s *Store) Load() (*Credentials, error) {
	data, err := os.ReadFile(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return &creds, nil
}

// Save persists a token response. The file is private to the user.
func (s *Store) Save(tok *api.TokenResponse) error {
	creds := Credentials{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresAt:   time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second).Format(time.RFC3339),
		Researcher:  &tok.Researcher,
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// Clear removes saved credentials. Missing credentials are not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Token returns the saved bearer token, or "" when not logged in.
func (s *Store) Token() string {
	creds, err := s.Load()
	if err != nil || creds == nil {
		return ""
	}
	return creds.AccessToken
}
