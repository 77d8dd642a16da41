package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory. Nothing survives the
// process; it backs tests and throwaway sessions.
type MemoryStore struct {
	mu        sync.RWMutex
	values    map[string]string
	audit     []fileAudit
	lastWrite time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.lastWrite = time.Now().UTC()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) LogAction(ctx context.Context, action, detail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, fileAudit{Action: action, Detail: detail, Timestamp: time.Now().UTC()})
	return nil
}

func (s *MemoryStore) RecentActions(ctx context.Context, limit int) ([]AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return recentActions(s.audit, limit), nil
}

func (s *MemoryStore) GetStats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &Stats{
		Keys:         int64(len(s.values)),
		LastWrite:    s.lastWrite,
		AuditEntries: int64(len(s.audit)),
		Backend:      "memory",
	}
	for _, v := range s.values {
		stats.ValueBytes += int64(len(v))
	}
	return stats, nil
}

func (s *MemoryStore) Close() error { return nil }
