// Package settings stores site customization and renders it into page head fragments.
package settings

import (
	"context"
	"sync"

	"github.com/user/tubevibes/internal/model"
)

// Store is a flat key-value store for site settings
type Store interface {
	// Get returns the value and whether the key is set
	Get(ctx context.Context, key model.SettingKey) (string, bool, error)
	Set(ctx context.Context, key model.SettingKey, value string) error
	Delete(ctx context.Context, key model.SettingKey) error
	All(ctx context.Context) (map[model.SettingKey]string, error)
	Close() error
}

// MemoryStore keeps settings in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	values map[model.SettingKey]string
}

// NewMemoryStore creates an empty in-memory settings store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[model.SettingKey]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key model.SettingKey) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key model.SettingKey, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key model.SettingKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) All(ctx context.Context) (map[model.SettingKey]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.SettingKey]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
