package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusRejected  OrderStatus = "REJECTED"
)

type Order struct {
	ID        int64
	StoreID   int64
	Status    OrderStatus
	CreatedAt time.Time
	Items     []OrderItem
}

type OrderItem struct {
	ID                int64
	ProductID         int64
	ProductTitle      string
	QuantityRequested int64
}

// Open starts a new order in PENDING state for the given store.
func Open(storeID int64) *Order {
	return &Order{
		StoreID:   storeID,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// RecordItem appends a requested line item. Items can only be recorded while
// the order is still PENDING; once resolved the item list is frozen.
func (o *Order) RecordItem(productID int64, productTitle string, quantity int64) error {
	if o.Status != StatusPending {
		return &InvalidTransitionError{From: o.Status, To: o.Status}
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	o.Items = append(o.Items, OrderItem{
		ProductID:         productID,
		ProductTitle:      productTitle,
		QuantityRequested: quantity,
	})
	return nil
}

// Resolve moves the order from PENDING to its terminal status. The transition
// happens at most once; resolving an already-terminal order fails.
func (o *Order) Resolve(outcome OrderStatus) error {
	if outcome != StatusConfirmed && outcome != StatusRejected {
		return &InvalidTransitionError{From: o.Status, To: outcome}
	}
	if o.Status != StatusPending {
		return &InvalidTransitionError{From: o.Status, To: outcome}
	}
	o.Status = outcome
	return nil
}

// Terminal reports whether the order has reached CONFIRMED or REJECTED.
func (o *Order) Terminal() bool {
	return o.Status == StatusConfirmed || o.Status == StatusRejected
}
