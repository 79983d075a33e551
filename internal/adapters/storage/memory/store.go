// Package memory provides a process-local slot store for throwaway boards.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/hylla/tavla/internal/app"
)

// Store keeps slots in a map.
type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// New returns an empty store.
func New() *Store {
	return &Store{slots: make(map[string][]byte)}
}

// ReadSlot returns a copy of the value under key.
func (s *Store) ReadSlot(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.slots[key]
	if !ok {
		return nil, app.ErrSlotNotFound
	}
	return slices.Clone(value), nil
}

// WriteSlot stores a copy of value under key.
func (s *Store) WriteSlot(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = append([]byte{}, value...)
	return nil
}
