package mocks

import (
	"context"
)

// MockTxManager models the relational transaction boundary: on error the
// order repository is restored to its pre-transaction state. Writes to
// other stores made inside fn survive, reproducing the cross-store
// consistency gap of the real saga.
type MockTxManager struct {
	orders *MockOrderRepository
}

// NewMockTxManager Create mock transaction manager
func NewMockTxManager(orders *MockOrderRepository) *MockTxManager {
	return &MockTxManager{orders: orders}
}

func (m *MockTxManager) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.orders.Snapshot()
	if err := fn(ctx); err != nil {
		m.orders.Restore(snap)
		return err
	}
	return nil
}
