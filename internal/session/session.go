// Package session persists the logged in user between TUI runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrNoSession = errors.New("no active session")

// User is what the front-end remembers about who is connected.
type User struct {
	Type  string `json:"type"`
	Email string `json:"email"`
	Token string `json:"token,omitempty"`
}

func (u User) IsAdmin() bool { return u.Type == "Admin" }

// Store reads and writes the user record at a fixed path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load() (User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return User{}, ErrNoSession
		}

		return User{}, fmt.Errorf("reading session: %w", err)
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return User{}, fmt.Errorf("decoding session: %w", err)
	}

	if u.Email == "" || u.Type == "" {
		return User{}, ErrNoSession
	}

	return u, nil
}

func (s *Store) Save(u User) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	return nil
}

func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}

	return nil
}
