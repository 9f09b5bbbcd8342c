package creditscore

import (
	"context"
	"testing"
	"time"

	"duplo-orders/domain/order"
	"duplo-orders/domain/transaction"
	"duplo-orders/infrastructure/persistence/mocks"
	apperrors "duplo-orders/pkg/errors"

	"github.com/shopspring/decimal"
)

func seed(t *testing.T, store *mocks.MockTransactionStore, businessID string, amount string, status transaction.Status) {
	t.Helper()
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("bad amount %q: %v", amount, err)
	}
	o := &order.Order{
		ID:         "order",
		BusinessID: businessID,
		Amount:     amt,
		Status:     order.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	rec := transaction.NewRecord(o)
	rec.Status = status
	if _, err := store.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestScoreNoTransactionsIsZero(t *testing.T) {
	svc := NewService(mocks.NewMockTransactionStore())

	resp, err := svc.Score(context.Background(), "biz-new")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if resp.Score != 0 {
		t.Errorf("score = %d, want 0", resp.Score)
	}
	if resp.TotalTransactions != 0 {
		t.Errorf("total = %d, want 0", resp.TotalTransactions)
	}
}

func TestScoreExactWeights(t *testing.T) {
	store := mocks.NewMockTransactionStore()
	svc := NewService(store)

	// 2 transactions, both completed, average 5000:
	// volume 2*3=6, success 1.0*300=300, amount 5000/10000*250=125 => 431
	seed(t, store, "biz-1", "4000", transaction.StatusCompleted)
	seed(t, store, "biz-1", "6000", transaction.StatusCompleted)

	resp, err := svc.Score(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if resp.Score != 431 {
		t.Errorf("score = %d, want 431", resp.Score)
	}
	if resp.SuccessRate != 1.0 {
		t.Errorf("success rate = %f, want 1.0", resp.SuccessRate)
	}
	if resp.AverageAmount != "5000" {
		t.Errorf("average amount = %q, want 5000", resp.AverageAmount)
	}
}

func TestScoreSuccessRateCountsOnlyCompleted(t *testing.T) {
	store := mocks.NewMockTransactionStore()
	svc := NewService(store)

	// 4 transactions, 1 completed, average 1000:
	// volume 4*3=12, success 0.25*300=75, amount 1000/10000*250=25 => 112
	seed(t, store, "biz-1", "1000", transaction.StatusCompleted)
	seed(t, store, "biz-1", "1000", transaction.StatusFailed)
	seed(t, store, "biz-1", "1000", transaction.StatusFailed)
	seed(t, store, "biz-1", "1000", transaction.StatusPending)

	resp, err := svc.Score(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if resp.Score != 112 {
		t.Errorf("score = %d, want 112", resp.Score)
	}
	if resp.SuccessRate != 0.25 {
		t.Errorf("success rate = %f, want 0.25", resp.SuccessRate)
	}
}

func TestScoreVolumeAndAmountComponentsAreCapped(t *testing.T) {
	store := mocks.NewMockTransactionStore()
	svc := NewService(store)

	// 100 completed transactions with a huge average:
	// volume capped at 300, success 300, amount capped at 250 => 850
	for i := 0; i < 100; i++ {
		seed(t, store, "biz-1", "1000000", transaction.StatusCompleted)
	}

	resp, err := svc.Score(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if resp.Score != 850 {
		t.Errorf("score = %d, want the 850 ceiling", resp.Score)
	}
}

func TestScoreOnlyRecentTransactionsCount(t *testing.T) {
	store := mocks.NewMockTransactionStore()
	svc := NewService(store)

	for i := 0; i < transaction.QueryLimit+50; i++ {
		seed(t, store, "biz-1", "100", transaction.StatusCompleted)
	}

	resp, err := svc.Score(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if resp.TotalTransactions != transaction.QueryLimit {
		t.Errorf("transactions considered = %d, want %d", resp.TotalTransactions, transaction.QueryLimit)
	}
}

func TestScoreRequiresBusinessID(t *testing.T) {
	svc := NewService(mocks.NewMockTransactionStore())

	_, err := svc.Score(context.Background(), "")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !apperrors.Is(err, apperrors.CodeValidation) {
		t.Errorf("error code is not validation: %v", err)
	}
}
