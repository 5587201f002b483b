// Package auth stores the bearer token the client forwards to the todo API.
// The token is opaque here; the server decides whether it is valid.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	credFileName = "credentials.json"
	envToken     = "TADA_TOKEN"
)

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // from the JWT exp claim, if any
}

// Expired reports whether the token carries an expiry in the past.
func (ti *TokenInfo) Expired(now time.Time) bool {
	return ti != nil && ti.ExpiresAt != nil && now.After(*ti.ExpiresAt)
}

// Store reads and writes credentials under a directory (~/.tada by default).
type Store struct {
	dir    string
	getenv func(string) string
}

// NewStore uses ~/.tada.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	return NewStoreAt(filepath.Join(home, ".tada")), nil
}

func NewStoreAt(dir string) *Store {
	return &Store{dir: dir, getenv: os.Getenv}
}

func (s *Store) path() string { return filepath.Join(s.dir, credFileName) }

// Get returns the current token: TADA_TOKEN wins over the credentials file.
// It returns nil, nil when not logged in.
func (s *Store) Get() (*TokenInfo, error) {
	if env := strings.TrimSpace(s.getenv(envToken)); env != "" {
		tok := stripBearer(env)
		return &TokenInfo{Token: tok, Source: "env", ExpiresAt: expiryOf(tok)}, nil
	}

	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // not logged in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = stripBearer(ti.Token)
	return &ti, nil
}

// Token is Get without the metadata; errors and absence both yield "".
func (s *Store) Token() string {
	ti, err := s.Get()
	if err != nil || ti == nil {
		return ""
	}
	return ti.Token
}

// Set writes the token to the credentials file (0600). The expiry is taken
// from the token itself when it is a JWT with an exp claim.
func (s *Store) Set(token string) (*TokenInfo, error) {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	ti := &TokenInfo{
		Token:     token,
		Source:    "file",
		CreatedAt: time.Now(),
		ExpiresAt: expiryOf(token),
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(s.path(), b, 0o600); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return ti, nil
}

// Delete removes the credentials file; a missing file is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Claims decodes a JWT payload without verifying the signature.
// Opaque tokens return an error.
func Claims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("not a JWT: %w", err)
	}
	return claims, nil
}

func expiryOf(token string) *time.Time {
	claims, err := Claims(token)
	if err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
