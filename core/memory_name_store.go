package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryNameStore keeps persisted app names in process memory. Useful for
// tests and single-process deployments that do not need a database-backed
// name store.
type MemoryNameStore struct {
	mu    sync.Mutex
	names map[string]struct{}
}

func NewMemoryNameStore() *MemoryNameStore {
	return &MemoryNameStore{names: map[string]struct{}{}}
}

func (s *MemoryNameStore) Persist(_ context.Context, name string) error {
	if s == nil {
		return fmt.Errorf("core: name store is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("core: app name is required")
	}
	s.mu.Lock()
	s.names[name] = struct{}{}
	s.mu.Unlock()
	return nil
}

func (s *MemoryNameStore) Remove(_ context.Context, name string) error {
	if s == nil {
		return fmt.Errorf("core: name store is not configured")
	}
	s.mu.Lock()
	delete(s.names, strings.TrimSpace(name))
	s.mu.Unlock()
	return nil
}

func (s *MemoryNameStore) ListNames(_ context.Context) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("core: name store is not configured")
	}
	s.mu.Lock()
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	s.mu.Unlock()
	sort.Strings(names)
	return names, nil
}
