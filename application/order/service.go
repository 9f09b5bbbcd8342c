/*
Package order - order-creation saga and business order aggregation.

The saga spans three systems with different guarantees: the relational order
insert is transactional, the transaction document insert and the job enqueue
are not. A failure after the document insert rolls back only the order row;
the orphaned pending document is accepted and later reconciled by the sweep.
*/
package order

import (
	"context"
	"errors"
	"time"

	"duplo-orders/domain/order"
	"duplo-orders/domain/taxjob"
	"duplo-orders/domain/transaction"
	apperrors "duplo-orders/pkg/errors"
	"duplo-orders/pkg/logger"
	"duplo-orders/pkg/ordernum"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxOrderNumberAttempts bounds order-number regeneration on unique-index
// collisions within one saga.
const maxOrderNumberAttempts = 3

// TxManager runs fn inside a relational transaction.
type TxManager interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service application service for orders.
type Service struct {
	orders       order.Repository
	transactions transaction.Store
	queue        taxjob.Enqueuer
	tx           TxManager
}

// NewService Create order service
func NewService(orders order.Repository, transactions transaction.Store, queue taxjob.Enqueuer, tx TxManager) *Service {
	return &Service{
		orders:       orders,
		transactions: transactions,
		queue:        queue,
		tx:           tx,
	}
}

// CreateOrder runs the order-creation saga: validate, insert the order row,
// insert the pending transaction document, enqueue the tax job, commit.
// Any step failing rolls back the relational transaction; document and queue
// writes already made are not retracted.
func (s *Service) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	o, err := order.NewOrder(req.BusinessID, req.DepartmentID, toItems(req.Items), req.Notes)
	if err != nil {
		return nil, apperrors.FromDomainError(err)
	}

	var transactionID string
	err = s.tx.Execute(ctx, func(ctx context.Context) error {
		if err := s.insertWithFreshNumber(ctx, o); err != nil {
			return err
		}

		rec := transaction.NewRecord(o)
		id, err := s.transactions.Create(ctx, rec)
		if err != nil {
			return err
		}
		transactionID = id

		return s.queue.Enqueue(ctx, taxjob.Payload{
			TransactionID: id,
			OrderData: taxjob.OrderData{
				OrderID:    o.ID,
				BusinessID: o.BusinessID,
				Amount:     o.Amount,
				Timestamp:  o.CreatedAt,
			},
		})
	})
	if err != nil {
		logger.Error("Order creation saga failed",
			zap.String("business_id", req.BusinessID),
			zap.Error(err),
		)
		return nil, apperrors.FromDomainError(err)
	}

	logger.Info("Order created",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("transaction_id", transactionID),
	)

	return &CreateOrderResponse{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		TransactionID: transactionID,
		BusinessID:    o.BusinessID,
		DepartmentID:  o.DepartmentID,
		Status:        string(o.Status),
		Amount:        o.Amount,
		Items:         o.Items,
		CreatedAt:     o.CreatedAt,
	}, nil
}

// insertWithFreshNumber generates an order number and inserts the row,
// regenerating on a unique-index collision. Collisions beyond the attempt
// budget surface as the duplicate sentinel.
func (s *Service) insertWithFreshNumber(ctx context.Context, o *order.Order) error {
	var lastErr error
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		o.OrderNumber = ordernum.Generate()

		lastErr = s.orders.Create(ctx, o)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, order.ErrDuplicateOrderNumber) {
			return lastErr
		}
		logger.Warn("Order number collision, regenerating",
			zap.String("order_number", o.OrderNumber),
			zap.Int("attempt", attempt),
		)
	}
	return lastErr
}

// GetBusinessOrders aggregates a business's full order history with today's
// slice. The two summary queries run concurrently.
func (s *Service) GetBusinessOrders(ctx context.Context, businessID string) (*BusinessOrdersResponse, error) {
	if businessID == "" {
		return nil, apperrors.Validation("businessId is required")
	}

	todayStart := time.Now().UTC().Truncate(24 * time.Hour)

	var all, today []order.Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = s.orders.FindByBusiness(gctx, businessID)
		return err
	})
	g.Go(func() error {
		var err error
		today, err = s.orders.FindByBusinessSince(gctx, businessID, todayStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.FromDomainError(err)
	}

	return &BusinessOrdersResponse{
		BusinessID:  businessID,
		TotalOrders: len(all),
		TotalAmount: sumAmounts(all),
		TodayOrders: len(today),
		TodayAmount: sumAmounts(today),
		Orders:      toSummaryDTOs(all),
	}, nil
}

func sumAmounts(summaries []order.Summary) (total decimal.Decimal) {
	total = decimal.Zero
	for _, s := range summaries {
		total = total.Add(s.Amount)
	}
	return total
}
