// Package memory provides the default in-memory sink backend.
package memory

import (
	"context"
	"sync"

	"etp/internal/core"
	"etp/internal/sink"
)

type Store struct {
	mu            sync.Mutex
	batch         []core.ExpenseRecord
	notifications []core.Notification // newest-first
	log           []core.LogEntry     // append order
	batches       int
}

func New() *Store {
	return &Store{}
}

// AppendLog implements sink.Store.
func (s *Store) AppendLog(_ context.Context, e core.LogEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, e)
	return nil
}

// ReplaceBatch implements sink.Store.
func (s *Store) ReplaceBatch(_ context.Context, records []core.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = append([]core.ExpenseRecord(nil), records...)
	return nil
}

// PrependNotifications implements sink.Store.
func (s *Store) PrependNotifications(_ context.Context, notifications []core.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(append([]core.Notification(nil), notifications...), s.notifications...)
	return nil
}

// CompleteRun implements sink.Store.
func (s *Store) CompleteRun(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches++
	return nil
}

// Batch implements sink.Store.
func (s *Store) Batch(_ context.Context) ([]core.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ExpenseRecord(nil), s.batch...), nil
}

// Notifications implements sink.Store.
func (s *Store) Notifications(_ context.Context) ([]core.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Notification(nil), s.notifications...), nil
}

// Log implements sink.Store, returning entries newest-first.
func (s *Store) Log(_ context.Context) ([]core.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.LogEntry, len(s.log))
	for i, e := range s.log {
		out[len(s.log)-1-i] = e
	}
	return out, nil
}

// Counters implements sink.Store.
func (s *Store) Counters(_ context.Context) (sink.Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sink.Counters{
		BatchesProcessed:  s.batches,
		NotificationsSent: len(s.notifications),
	}, nil
}

// Reset implements sink.Store.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = nil
	s.notifications = nil
	s.log = nil
	s.batches = 0
	return nil
}

var _ sink.Store = (*Store)(nil)
