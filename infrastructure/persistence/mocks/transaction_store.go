package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"duplo-orders/domain/transaction"
)

// MockTransactionStore in-memory transaction record store mirroring the
// document store's semantics: generated string ids, overwrite-style status
// updates, recency-sorted capped queries.
type MockTransactionStore struct {
	mu      sync.RWMutex
	records map[string]*transaction.Record
	nextID  int

	CreateErr       error
	MarkCompletedAt []string
	MarkFailedAt    []string
}

// NewMockTransactionStore Create mock transaction store
func NewMockTransactionStore() *MockTransactionStore {
	return &MockTransactionStore{records: make(map[string]*transaction.Record)}
}

func (s *MockTransactionStore) Create(ctx context.Context, rec *transaction.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateErr != nil {
		return "", s.CreateErr
	}
	s.nextID++
	id := fmt.Sprintf("txn-%04d", s.nextID)

	copied := *rec
	copied.ID = id
	s.records[id] = &copied
	return id, nil
}

func (s *MockTransactionStore) FindByID(ctx context.Context, id string) (*transaction.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[id]
	if !exists {
		return nil, transaction.ErrTransactionNotFound
	}
	copied := *rec
	return &copied, nil
}

func (s *MockTransactionStore) Find(ctx context.Context, f transaction.Filter) ([]*transaction.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*transaction.Record, 0)
	for _, rec := range s.records {
		if f.OrderID != "" && rec.OrderID != f.OrderID {
			continue
		}
		if f.BusinessID != "" && rec.BusinessID != f.BusinessID {
			continue
		}
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.StartDate != nil && rec.Timestamp.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && !rec.Timestamp.Before(*f.EndDate) {
			continue
		}
		copied := *rec
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if len(matched) > transaction.QueryLimit {
		matched = matched[:transaction.QueryLimit]
	}
	return matched, nil
}

func (s *MockTransactionStore) MarkCompleted(ctx context.Context, id string, taxResponse map[string]interface{}, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[id]
	if !exists {
		return transaction.ErrTransactionNotFound
	}
	rec.Status = transaction.StatusCompleted
	rec.TaxResponse = taxResponse
	processedAt := at
	rec.LastProcessedAt = &processedAt
	s.MarkCompletedAt = append(s.MarkCompletedAt, id)
	return nil
}

func (s *MockTransactionStore) MarkFailed(ctx context.Context, id string, errorMessage string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[id]
	if !exists {
		return transaction.ErrTransactionNotFound
	}
	rec.Status = transaction.StatusFailed
	rec.ErrorMessage = errorMessage
	processedAt := at
	rec.LastProcessedAt = &processedAt
	s.MarkFailedAt = append(s.MarkFailedAt, id)
	return nil
}

func (s *MockTransactionStore) FindStalePending(ctx context.Context, before time.Time, limit int) ([]*transaction.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*transaction.Record, 0)
	for _, rec := range s.records {
		if rec.Status != transaction.StatusPending {
			continue
		}
		if !rec.Timestamp.Before(before) {
			continue
		}
		copied := *rec
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Count reports how many records are stored.
func (s *MockTransactionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot captures current state for transactional rollback in tests.
func (s *MockTransactionStore) Snapshot() map[string]*transaction.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[string]*transaction.Record, len(s.records))
	for id, rec := range s.records {
		copied := *rec
		snap[id] = &copied
	}
	return snap
}

// Restore replaces current state with a previously taken snapshot.
func (s *MockTransactionStore) Restore(snap map[string]*transaction.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = snap
}

// Compile-time interface implementation check
var _ transaction.Store = (*MockTransactionStore)(nil)
