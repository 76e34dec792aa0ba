// Package redis provides a Redis-backed implementation of storage.Store.
// Each collection is stored as a plain string value under a key prefix.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mmynk/splitledger/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Options configures a connection made by Open.
type Options struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

// Store implements storage.Store on top of a Redis client.
type Store struct {
	client *redis.Client
	prefix string
}

// New wraps an existing client. The store owns the client and closes it on Close.
func New(client *redis.Client, keyPrefix string) *Store {
	return &Store{client: client, prefix: keyPrefix}
}

// Open connects to Redis and verifies the connection with a PING.
func Open(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Address, err)
	}
	return New(client, opts.KeyPrefix), nil
}

func (s *Store) key(collection string) string {
	return s.prefix + collection
}

// Load reads one collection.
func (s *Store) Load(ctx context.Context, collection string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s: %w", collection, err)
	}
	return data, true, nil
}

// Save writes all documents in a MULTI/EXEC block.
func (s *Store) Save(ctx context.Context, docs ...storage.Document) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range docs {
			pipe.Set(ctx, s.key(d.Collection), string(d.Data), 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save documents: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
