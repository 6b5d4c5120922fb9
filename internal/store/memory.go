package store

import (
	"context"
	"sync"
)

// MemoryStore implements KV with an in-process map. Nothing survives a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	m      map[string]string
	closed bool

	// GetErr and SetErr, when non-nil, are returned instead of touching the map.
	GetErr error
	SetErr error

	// OnSet is called with every value passed to Set, before it is stored.
	OnSet func(key, value string)
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]string)}
}

// Get retrieves the value stored under key.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, ErrClosed
	}
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	v, ok := s.m[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.OnSet != nil {
		s.OnSet(key, value)
	}
	if s.SetErr != nil {
		return s.SetErr
	}
	s.m[key] = value
	return nil
}

// SetFailure changes the errors returned by Get and Set.
func (s *MemoryStore) SetFailure(getErr, setErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetErr = getErr
	s.SetErr = setErr
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
