package store

import (
	"context"
	"sort"
	"sync"

	"dicomgate/internal/endpoint"
)

// MemoryStore keeps endpoints in a map. It backs unit tests and development
// runs without a database; it intentionally favors clarity over performance.
type MemoryStore struct {
	mu        sync.RWMutex
	endpoints map[string]endpoint.Endpoint
}

func NewMemory() *MemoryStore {
	return &MemoryStore{endpoints: make(map[string]endpoint.Endpoint)}
}

func (s *MemoryStore) List(_ context.Context) ([]endpoint.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]endpoint.Endpoint, 0, len(s.endpoints))
	for _, ep := range s.endpoints {
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, name string) (endpoint.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ep, ok := s.endpoints[name]; ok {
		return ep, nil
	}
	return endpoint.Endpoint{}, ErrNotFound
}

func (s *MemoryStore) Create(_ context.Context, ep endpoint.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.endpoints[ep.Name]; ok {
		return ErrDuplicate
	}
	s.endpoints[ep.Name] = ep
	return nil
}

func (s *MemoryStore) Update(_ context.Context, ep endpoint.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.endpoints[ep.Name]; !ok {
		return ErrNotFound
	}
	s.endpoints[ep.Name] = ep
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.endpoints[name]; !ok {
		return ErrNotFound
	}
	delete(s.endpoints, name)
	return nil
}
