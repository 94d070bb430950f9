package auth

import (
	"context"
	"errors"
	"sync"
)

// ErrUserNotFound is returned by the in-memory store for unknown user ids.
var ErrUserNotFound = errors.New("user not found")

// NewInMemoryTokenStore returns a TokenStore backed by an in-memory map.
func NewInMemoryTokenStore() *InMemoryTokenStore {
	return &InMemoryTokenStore{records: make(map[string]AuthRecord)}
}

// InMemoryTokenStore implements TokenStore for tests and local development.
type InMemoryTokenStore struct {
	mu      sync.RWMutex
	records map[string]AuthRecord
}

// Put registers a user record.
func (s *InMemoryTokenStore) Put(record AuthRecord) {
	s.mu.Lock()
	s.records[record.UserID] = record
	s.mu.Unlock()
}

// AuthRecord returns the stored record for the user.
func (s *InMemoryTokenStore) AuthRecord(_ context.Context, userID string) (AuthRecord, error) {
	s.mu.RLock()
	record, ok := s.records[userID]
	s.mu.RUnlock()
	if !ok {
		return AuthRecord{}, ErrUserNotFound
	}
	return record, nil
}

// SetRefreshToken overwrites the user's active refresh token.
func (s *InMemoryTokenStore) SetRefreshToken(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	if !ok {
		return ErrUserNotFound
	}
	record.RefreshToken = token
	s.records[userID] = record
	return nil
}

// ClearRefreshToken removes the user's active refresh token.
func (s *InMemoryTokenStore) ClearRefreshToken(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	if !ok {
		return ErrUserNotFound
	}
	record.RefreshToken = ""
	s.records[userID] = record
	return nil
}
