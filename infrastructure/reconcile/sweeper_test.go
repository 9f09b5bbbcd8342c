package reconcile

import (
	"context"
	"strings"
	"testing"
	"time"

	"duplo-orders/domain/order"
	"duplo-orders/domain/transaction"
	"duplo-orders/infrastructure/persistence/mocks"

	"github.com/shopspring/decimal"
)

func newSweeper(t *testing.T, transactions transaction.Store, orders order.Repository) *Sweeper {
	t.Helper()
	s, err := NewSweeper(transactions, orders, time.Minute, 10*time.Minute, 50)
	if err != nil {
		t.Fatalf("NewSweeper failed: %v", err)
	}
	return s
}

func seedTransaction(t *testing.T, store *mocks.MockTransactionStore, orderID string, age time.Duration) string {
	t.Helper()
	o := &order.Order{
		ID:         orderID,
		BusinessID: "biz-1",
		Amount:     decimal.NewFromInt(100),
		Status:     order.StatusPending,
		CreatedAt:  time.Now().UTC().Add(-age),
	}
	rec := transaction.NewRecord(o)
	rec.Timestamp = o.CreatedAt
	id, err := store.Create(context.Background(), rec)
	if err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	return id
}

func TestSweepMarksOrphanedTransactionsFailed(t *testing.T) {
	transactions := mocks.NewMockTransactionStore()
	orders := mocks.NewMockOrderRepository()
	sweeper := newSweeper(t, transactions, orders)

	// The order row was rolled back; only the document remains.
	id := seedTransaction(t, transactions, "order-rolled-back", time.Hour)

	if err := sweeper.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	rec, err := transactions.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if rec.Status != transaction.StatusFailed {
		t.Errorf("status = %q, want failed", rec.Status)
	}
	if !strings.Contains(rec.ErrorMessage, "order-rolled-back") {
		t.Errorf("error message %q does not name the missing order", rec.ErrorMessage)
	}
}

func TestSweepLeavesTransactionsWithCommittedOrders(t *testing.T) {
	transactions := mocks.NewMockTransactionStore()
	orders := mocks.NewMockOrderRepository()
	sweeper := newSweeper(t, transactions, orders)

	o, err := order.NewOrder("biz-1", "dept-1", []order.Item{
		{ProductID: "p", Name: "Item", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
	}, "")
	if err != nil {
		t.Fatalf("NewOrder failed: %v", err)
	}
	o.OrderNumber = "DPL-20260301-AAAAA"
	orders.SeedOrder(o)
	id := seedTransaction(t, transactions, o.ID, time.Hour)

	if err := sweeper.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	rec, err := transactions.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	// Still waiting on the tax worker, not orphaned.
	if rec.Status != transaction.StatusPending {
		t.Errorf("status = %q, want pending", rec.Status)
	}
}

func TestSweepIgnoresRecentPendingTransactions(t *testing.T) {
	transactions := mocks.NewMockTransactionStore()
	orders := mocks.NewMockOrderRepository()
	sweeper := newSweeper(t, transactions, orders)

	id := seedTransaction(t, transactions, "order-in-flight", time.Minute)

	if err := sweeper.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	rec, err := transactions.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if rec.Status != transaction.StatusPending {
		t.Errorf("recent transaction swept too early, status = %q", rec.Status)
	}
}

func TestNewSweeperValidatesArguments(t *testing.T) {
	transactions := mocks.NewMockTransactionStore()
	orders := mocks.NewMockOrderRepository()

	cases := []struct {
		name string
		fn   func() (*Sweeper, error)
	}{
		{"nil transaction store", func() (*Sweeper, error) {
			return NewSweeper(nil, orders, time.Minute, time.Minute, 1)
		}},
		{"nil order repository", func() (*Sweeper, error) {
			return NewSweeper(transactions, nil, time.Minute, time.Minute, 1)
		}},
		{"non-positive interval", func() (*Sweeper, error) {
			return NewSweeper(transactions, orders, 0, time.Minute, 1)
		}},
		{"non-positive max age", func() (*Sweeper, error) {
			return NewSweeper(transactions, orders, time.Minute, 0, 1)
		}},
		{"non-positive batch size", func() (*Sweeper, error) {
			return NewSweeper(transactions, orders, time.Minute, time.Minute, 0)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.fn(); err == nil {
				t.Error("expected constructor error")
			}
		})
	}
}
