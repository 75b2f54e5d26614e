package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Storage is the persistent key-value mirror behind a session's store.
// Implementations: in-memory (tests, single instance), Redis, MongoDB, SQL.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type scoped struct {
	Storage
	prefix string
}

// Scope returns a view of s whose keys are namespaced with prefix.
// Closing a scoped view does not close the parent.
func Scope(s Storage, prefix string) Storage {
	return &scoped{Storage: s, prefix: prefix}
}

func (s *scoped) key(k string) string {
	return s.prefix + ":" + k
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.Storage.Get(ctx, s.key(key))
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.Storage.Set(ctx, s.key(key), value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.Storage.Delete(ctx, s.key(key))
}

func (s *scoped) Close() error {
	return nil
}
