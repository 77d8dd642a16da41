package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileStore implements Store as a single JSON document on disk. Every
// write rewrites the whole file through a temp file and rename.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

type fileDocument struct {
	Values    map[string]fileValue `json:"values"`
	Audit     []fileAudit          `json:"audit"`
	LastWrite time.Time            `json:"lastWrite"`
}

type fileValue struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type fileAudit struct {
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"ts"`
}

// NewFileStore returns a FileStore persisting to path. The file is created
// on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get returns the blob stored under key.
func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := doc.Values[key]
	return v.Value, ok, nil
}

// Set stores value under key.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	doc.Values[key] = fileValue{Value: value, UpdatedAt: now}
	doc.LastWrite = now
	return s.write(doc)
}

// Delete removes key.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Values[key]; !ok {
		return nil
	}
	delete(doc.Values, key)
	return s.write(doc)
}

// Keys returns all stored keys in ascending order.
func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc.Values))
	for k := range doc.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// LogAction appends an entry to the audit log.
func (s *FileStore) LogAction(ctx context.Context, action, detail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Audit = append(doc.Audit, fileAudit{Action: action, Detail: detail, Timestamp: time.Now().UTC()})
	return s.write(doc)
}

// RecentActions returns up to limit audit entries, newest first.
func (s *FileStore) RecentActions(ctx context.Context, limit int) ([]AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return recentActions(doc.Audit, limit), nil
}

// GetStats returns aggregate statistics about the file.
func (s *FileStore) GetStats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	stats := &Stats{
		Keys:         int64(len(doc.Values)),
		LastWrite:    doc.LastWrite,
		AuditEntries: int64(len(doc.Audit)),
		Backend:      "file",
	}
	for _, v := range doc.Values {
		stats.ValueBytes += int64(len(v.Value))
	}
	return stats, nil
}

// Close is a no-op; the file is not held open between operations.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() (*fileDocument, error) {
	doc := &fileDocument{Values: map[string]fileValue{}}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", s.path, err)
	}
	if doc.Values == nil {
		doc.Values = map[string]fileValue{}
	}
	return doc, nil
}

func (s *FileStore) write(doc *fileDocument) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func recentActions(audit []fileAudit, limit int) []AuditEntry {
	if limit <= 0 {
		limit = 10
	}
	entries := []AuditEntry{}
	for i := len(audit) - 1; i >= 0 && len(entries) < limit; i-- {
		a := audit[i]
		entries = append(entries, AuditEntry{
			ID:        int64(i + 1),
			Action:    a.Action,
			Detail:    a.Detail,
			Timestamp: a.Timestamp,
		})
	}
	return entries
}
