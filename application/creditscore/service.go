/*
Package creditscore - heuristic credit scoring over recent transactions.

The score is derived from the business's most recent transactions only, so
it reflects current behavior rather than lifetime history. Weights:
volume up to 300, success rate up to 300, average amount up to 250, with the
final score clamped to 850. A business with no transactions scores 0.
*/
package creditscore

import (
	"context"
	"math"

	"duplo-orders/domain/transaction"
	apperrors "duplo-orders/pkg/errors"

	"github.com/shopspring/decimal"
)

const (
	maxScore = 850

	volumePointsPerTransaction = 3.0
	maxVolumePoints            = 300.0
	maxSuccessPoints           = 300.0
	amountNormalizer           = 10000.0
	maxAmountPoints            = 250.0
)

// ScoreResponse credit score with its inputs, for explainability.
type ScoreResponse struct {
	BusinessID        string  `json:"businessId"`
	Score             int     `json:"score"`
	TotalTransactions int     `json:"totalTransactions"`
	SuccessRate       float64 `json:"successRate"`
	AverageAmount     string  `json:"averageAmount"`
}

// Service credit scoring service.
type Service struct {
	transactions transaction.Store
}

// NewService Create credit score service
func NewService(transactions transaction.Store) *Service {
	return &Service{transactions: transactions}
}

// Score computes the business's credit score from its recent transactions.
func (s *Service) Score(ctx context.Context, businessID string) (*ScoreResponse, error) {
	if businessID == "" {
		return nil, apperrors.Validation("businessId is required")
	}

	records, err := s.transactions.Find(ctx, transaction.Filter{BusinessID: businessID})
	if err != nil {
		return nil, apperrors.FromDomainError(err)
	}
	if len(records) == 0 {
		return &ScoreResponse{
			BusinessID:    businessID,
			AverageAmount: "0",
		}, nil
	}

	total := len(records)
	completed := 0
	sum := 0.0
	for _, rec := range records {
		if rec.Status == transaction.StatusCompleted {
			completed++
		}
		sum += rec.Amount.InexactFloat64()
	}
	successRate := float64(completed) / float64(total)
	average := sum / float64(total)

	volumePoints := math.Min(float64(total)*volumePointsPerTransaction, maxVolumePoints)
	successPoints := successRate * maxSuccessPoints
	amountPoints := math.Min(average/amountNormalizer*maxAmountPoints, maxAmountPoints)

	score := math.Round(volumePoints + successPoints + amountPoints)
	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}

	avg := decimal.Zero
	for _, rec := range records {
		avg = avg.Add(rec.Amount)
	}
	avg = avg.Div(decimal.NewFromInt(int64(total)))

	return &ScoreResponse{
		BusinessID:        businessID,
		Score:             int(score),
		TotalTransactions: total,
		SuccessRate:       successRate,
		AverageAmount:     avg.Round(2).String(),
	}, nil
}
