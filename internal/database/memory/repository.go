// Package memory provides an in-process key/value store for tests and ephemeral sessions.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vadimbarashkov/linkboard/internal/database"
)

type KVRepository struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewKVRepository() *KVRepository {
	return &KVRepository{
		entries: make(map[string][]byte),
	}
}

func (r *KVRepository) Get(_ context.Context, key string) ([]byte, error) {
	const op = "database.memory.KVRepository.Get"

	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.entries[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, database.ErrKeyNotFound)
	}

	return append([]byte(nil), value...), nil
}

func (r *KVRepository) Put(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = append([]byte(nil), value...)

	return nil
}
