// Package memory provides an in-memory implementation of user.Store for
// testing and single-node development. Users are lost when the process
// restarts.
package memory

import (
	"context"
	"sync"

	"github.com/sinabro/schedbird/pkg/storage"
	"github.com/sinabro/schedbird/pkg/user"
)

// Store is an in-memory user.Store.
type Store struct {
	mu    sync.RWMutex
	users map[string]user.User
}

// Ensure Store implements user.Store at compile time.
var _ user.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{users: make(map[string]user.User)}
}

// FindByID returns a copy of the user with the given ID.
func (s *Store) FindByID(_ context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

// FindByLiveToken scans for the user holding the given provider token.
func (s *Store) FindByLiveToken(_ context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, storage.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.LiveToken == token {
			found := u
			return &found, nil
		}
	}
	return nil, storage.ErrNotFound
}

// Insert stores a new user. Returns storage.ErrConflict if the ID is taken.
func (s *Store) Insert(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID]; exists {
		return storage.ErrConflict
	}
	s.users[u.ID] = *u
	return nil
}

// Update replaces scope and live token of an existing user.
func (s *Store) Update(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID]; !exists {
		return storage.ErrNotFound
	}
	s.users[u.ID] = *u
	return nil
}

// Len returns the number of stored users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// HealthCheck always returns nil for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
