package store

import (
	"context"
	"sync"

	"dicomgate/internal/audit"
	"dicomgate/pkg/domain"
)

// MemoryStore keeps audit records in per-kind slices, mirroring the per-kind
// tables of the postgres store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[domain.Operation][]audit.Record
}

func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[domain.Operation][]audit.Record)}
}

func (s *MemoryStore) Append(_ context.Context, rec audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Kind] = append(s.records[rec.Kind], rec)
	return nil
}

// List returns records of one kind, newest first.
func (s *MemoryStore) List(_ context.Context, kind domain.Operation, limit, offset int) ([]audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.records[kind]
	out := make([]audit.Record, 0, limit)
	for i := len(all) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context, kind domain.Operation) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[kind]), nil
}
