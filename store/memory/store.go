// Package memory provides an in-memory KeyedStore for tests and local runs.
package memory

import (
	"context"
	"sync"

	streamless "github.com/streamless/streamless"
	"github.com/streamless/streamless/store"
)

// compile-time interface check
var _ store.KeyedStore = (*Store)(nil)

// Store is an ordered in-memory KeyedStore. Keys keep their first-insertion
// order, which Keys exposes for inspection in tests.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
	order  []string
	closed bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		values: make(map[string]string),
	}
}

func (s *Store) Has(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, streamless.ErrStoreClosed
	}
	_, ok := s.values[key]
	return ok, nil
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", streamless.ErrStoreClosed
	}
	v, ok := s.values[key]
	if !ok {
		return "", streamless.ErrKeyNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return streamless.ErrStoreClosed
	}
	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	s.values[key] = value
	return nil
}

// Keys returns all keys in first-insertion order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return streamless.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
