// Package mocks provides in-memory doubles for the persistence and queue
// ports, used by application-layer tests.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"duplo-orders/domain/order"
)

// MockOrderRepository in-memory order ledger. It enforces the order-number
// unique index the same way MySQL does, so collision handling is testable.
type MockOrderRepository struct {
	mu          sync.RWMutex
	orders      map[string]*order.Order
	departments map[string]string

	CreateErr    error
	CreateCalls  int
	FailCreateOn func(o *order.Order) error
}

// NewMockOrderRepository Create mock order repository
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders:      make(map[string]*order.Order),
		departments: make(map[string]string),
	}
}

// SetDepartmentName seeds the department reference data used by summaries.
func (r *MockOrderRepository) SetDepartmentName(departmentID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.departments[departmentID] = name
}

// SeedOrder inserts an order bypassing uniqueness checks.
func (r *MockOrderRepository) SeedOrder(o *order.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *o
	r.orders[o.ID] = &copied
}

func (r *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CreateCalls++
	if r.CreateErr != nil {
		return r.CreateErr
	}
	if r.FailCreateOn != nil {
		if err := r.FailCreateOn(o); err != nil {
			return err
		}
	}
	for _, existing := range r.orders {
		if existing.OrderNumber == o.OrderNumber {
			return order.ErrDuplicateOrderNumber
		}
	}

	copied := *o
	r.orders[o.ID] = &copied
	return nil
}

func (r *MockOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, exists := r.orders[id]
	if !exists {
		return nil, order.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *MockOrderRepository) FindByBusiness(ctx context.Context, businessID string) ([]order.Summary, error) {
	return r.findSummaries(businessID, nil)
}

func (r *MockOrderRepository) FindByBusinessSince(ctx context.Context, businessID string, since time.Time) ([]order.Summary, error) {
	return r.findSummaries(businessID, &since)
}

func (r *MockOrderRepository) findSummaries(businessID string, since *time.Time) ([]order.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]order.Summary, 0)
	for _, o := range r.orders {
		if o.BusinessID != businessID {
			continue
		}
		if since != nil && o.CreatedAt.Before(*since) {
			continue
		}
		summaries = append(summaries, order.Summary{
			ID:             o.ID,
			OrderNumber:    o.OrderNumber,
			Amount:         o.Amount,
			Status:         o.Status,
			DepartmentName: r.departments[o.DepartmentID],
			CreatedAt:      o.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// Count reports how many orders are stored.
func (r *MockOrderRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

// Snapshot captures current state for transactional rollback in tests.
func (r *MockOrderRepository) Snapshot() map[string]*order.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]*order.Order, len(r.orders))
	for id, o := range r.orders {
		copied := *o
		snap[id] = &copied
	}
	return snap
}

// Restore replaces current state with a previously taken snapshot.
func (r *MockOrderRepository) Restore(snap map[string]*order.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = snap
}

// Compile-time interface implementation check
var _ order.Repository = (*MockOrderRepository)(nil)
