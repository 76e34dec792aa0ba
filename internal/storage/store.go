// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// Collection names used by the ledger. The values match the keys the
// browser version of the ledger kept in local storage, so exported data
// stays interchangeable.
const (
	CollectionParticipants = "friendsData"
	CollectionExpenses     = "expensesData"
	CollectionDarkMode     = "darkMode"
)

// ErrClosed is returned by stores that have already been closed.
var ErrClosed = errors.New("storage: store is closed")

// Document is a serialized collection.
type Document struct {
	Collection string
	Data       []byte
}

// Store defines the interface for collection storage.
// This abstraction allows swapping storage backends (SQLite, Redis, memory)
// without changing the ledger.
type Store interface {
	// Load returns the document saved under collection.
	// ok is false when the collection has never been saved; that is not an error.
	Load(ctx context.Context, collection string) (data []byte, ok bool, err error)

	// Save writes all documents atomically: either every collection is
	// replaced or none is.
	Save(ctx context.Context, docs ...Document) error

	// Close releases any resources held by the store.
	Close() error
}
