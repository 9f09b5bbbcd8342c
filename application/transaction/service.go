// Package transaction - read-side query service over transaction records.
package transaction

import (
	"context"
	"time"

	"duplo-orders/domain/transaction"
	apperrors "duplo-orders/pkg/errors"
)

// QueryRequest optional filter predicates, combined by conjunction.
type QueryRequest struct {
	OrderID    string
	BusinessID string
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
}

// RecordDTO client-facing transaction record.
type RecordDTO struct {
	ID              string                 `json:"id"`
	OrderID         string                 `json:"orderId"`
	BusinessID      string                 `json:"businessId"`
	Amount          string                 `json:"amount"`
	Status          string                 `json:"status"`
	Timestamp       time.Time              `json:"timestamp"`
	LastProcessedAt *time.Time             `json:"lastProcessedAt,omitempty"`
	ErrorMessage    string                 `json:"errorMessage,omitempty"`
	TaxResponse     map[string]interface{} `json:"taxResponse,omitempty"`
}

// QueryResponse filtered transaction list. Total counts the returned page,
// which is capped; it is not a table count.
type QueryResponse struct {
	Total        int         `json:"total"`
	Transactions []RecordDTO `json:"transactions"`
}

// Service transaction query service.
type Service struct {
	store transaction.Store
}

// NewService Create transaction service
func NewService(store transaction.Store) *Service {
	return &Service{store: store}
}

// Query lists transactions matching the filter, newest first. An unmatched
// filter yields an empty list, never an error.
func (s *Service) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	records, err := s.store.Find(ctx, transaction.Filter{
		OrderID:    req.OrderID,
		BusinessID: req.BusinessID,
		Status:     transaction.Status(req.Status),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		return nil, apperrors.FromDomainError(err)
	}

	dtos := make([]RecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toDTO(rec)
	}
	return &QueryResponse{Total: len(dtos), Transactions: dtos}, nil
}

// GetStatus loads one transaction by id. A missing id is a distinct
// not-found outcome, unlike an empty query result.
func (s *Service) GetStatus(ctx context.Context, id string) (*RecordDTO, error) {
	if id == "" {
		return nil, apperrors.Validation("transaction id is required")
	}

	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.FromDomainError(err)
	}
	dto := toDTO(rec)
	return &dto, nil
}

func toDTO(rec *transaction.Record) RecordDTO {
	return RecordDTO{
		ID:              rec.ID,
		OrderID:         rec.OrderID,
		BusinessID:      rec.BusinessID,
		Amount:          rec.Amount.String(),
		Status:          string(rec.Status),
		Timestamp:       rec.Timestamp,
		LastProcessedAt: rec.LastProcessedAt,
		ErrorMessage:    rec.ErrorMessage,
		TaxResponse:     rec.TaxResponse,
	}
}
