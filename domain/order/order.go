/*
Package order - Order ledger subdomain.

An Order is the durable, schema-enforced record of a purchase. It is created
exactly once by the order-creation saga and never mutated afterwards by this
service; its lifecycle beyond the initial pending state belongs to downstream
processes.
*/
package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status order lifecycle state. Only the initial state is owned here.
type Status string

const (
	StatusPending Status = "pending"
)

// Item a single order line. Quantity may be fractional; amounts are
// fixed-point decimals, never floats.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Subtotal quantity * unit price, decimal-exact.
func (i Item) Subtotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Order relational ledger entry. Amount and items are immutable after
// creation; the order number is assigned by the saga before insert.
type Order struct {
	ID           string
	OrderNumber  string
	BusinessID   string
	DepartmentID string
	Amount       decimal.Decimal
	Items        []Item
	Status       Status
	Notes        string
	CreatedAt    time.Time
}

// Summary read model for business-order aggregation, joined to the
// department name.
type Summary struct {
	ID             string
	OrderNumber    string
	Amount         decimal.Decimal
	Status         Status
	DepartmentName string
	CreatedAt      time.Time
}

// NewOrder validates the input and builds a pending order. The amount is
// always computed server-side from the items, never taken from the caller.
func NewOrder(businessID, departmentID string, items []Item, notes string) (*Order, error) {
	if strings.TrimSpace(businessID) == "" {
		return nil, ErrMissingBusinessID
	}
	if strings.TrimSpace(departmentID) == "" {
		return nil, ErrMissingDepartmentID
	}
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, ErrBlankItemName
		}
		if !item.Quantity.IsPositive() {
			return nil, ErrInvalidQuantity
		}
		if item.UnitPrice.IsNegative() {
			return nil, ErrNegativeUnitPrice
		}
	}

	return &Order{
		ID:           uuid.New().String(),
		BusinessID:   businessID,
		DepartmentID: departmentID,
		Amount:       TotalAmount(items),
		Items:        items,
		Status:       StatusPending,
		Notes:        notes,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// TotalAmount sum of quantity * unit price over all items.
func TotalAmount(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
