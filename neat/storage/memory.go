package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	records     map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.records = make(map[string]Record)
	return nil
}

func (s *MemoryStore) Put(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	record.Payload = append([]byte(nil), record.Payload...)
	s.records[record.ID] = record
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return Record{}, false, errNotInitialized
	}
	record, ok := s.records[id]
	if !ok {
		return Record{}, false, nil
	}
	record.Payload = append([]byte(nil), record.Payload...)
	return record, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
