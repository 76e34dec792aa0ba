// Package memory provides an in-process implementation of storage.Store.
package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/mmynk/splitledger/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps documents in a map. Nothing survives the process.
type Store struct {
	mu     sync.Mutex
	docs   map[string][]byte
	closed bool
}

// New returns an empty store.
func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

// Load returns a copy of the stored document.
func (s *Store) Load(_ context.Context, collection string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, storage.ErrClosed
	}
	data, ok := s.docs[collection]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(data), true, nil
}

// Save replaces the given documents.
func (s *Store) Save(_ context.Context, docs ...storage.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	for _, d := range docs {
		s.docs[d.Collection] = bytes.Clone(d.Data)
	}
	return nil
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
