package order

import "errors"

// Sentinel errors for errors.Is() checks.
var (
	// ErrOrderNotFound no order exists with the given ID
	ErrOrderNotFound = errors.New("order not found")

	// ErrDuplicateOrderNumber the generated order number collided with an
	// existing row; the caller should regenerate and retry
	ErrDuplicateOrderNumber = errors.New("order number already exists")

	// ErrMissingBusinessID business reference is required
	ErrMissingBusinessID = errors.New("business id is required")

	// ErrMissingDepartmentID department reference is required
	ErrMissingDepartmentID = errors.New("department id is required")

	// ErrEmptyItems an order must have at least one item
	ErrEmptyItems = errors.New("order must have at least one item")

	// ErrBlankItemName every item needs a non-blank name
	ErrBlankItemName = errors.New("item name must not be blank")

	// ErrInvalidQuantity quantities must be strictly positive
	ErrInvalidQuantity = errors.New("item quantity must be positive")

	// ErrNegativeUnitPrice unit prices must be non-negative
	ErrNegativeUnitPrice = errors.New("item unit price must not be negative")
)
