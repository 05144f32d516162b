package db

import (
	"context"
	"errors"
	"sync"
)

// ClassroomsKey is the single storage key holding the whole classroom collection
const ClassroomsKey = "classrooms"

var (
	// ErrStorageUnavailable wraps any read or write rejected by the backend
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrClassroomNotFound  = errors.New("classroom not found")
	ErrClassroomExists    = errors.New("classroom already exists")
	ErrInvalidClassName   = errors.New("class name cannot be empty")
	ErrCorruptStore       = errors.New("stored classrooms are not valid JSON")
)

// KVStore is the string-keyed, string-valued storage the roster persists into.
// A write either fully succeeds or fails; there is no partial-write state.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// MemoryStore keeps values in process memory. Used for tests and throwaway runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
