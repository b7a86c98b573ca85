package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("requested quantity must be at least 1")
)

// NotFoundError reports an unresolved store or product reference. A submission
// that hits one aborts entirely; nothing is persisted.
type NotFoundError struct {
	Kind string // "store" or "product"
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// InsufficientStockError is the ledger's defensive guard on deduction. The
// coordinator only deducts after confirming sufficiency under lock, so seeing
// this error means a logic bug, not a business outcome.
type InsufficientStockError struct {
	StoreID   int64
	ProductID int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d in store %d (requested %d)",
		e.ProductID, e.StoreID, e.Requested)
}

// InvalidTransitionError reports an attempt to mutate an order that has
// already reached a terminal status.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order transition from %s to %s", e.From, e.To)
}
