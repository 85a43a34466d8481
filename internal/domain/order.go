package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is one checkout event. The total is captured at creation from the
// catalog prices current at that moment and is never recomputed afterwards.
type Order struct {
	ID       uuid.UUID
	OwnerID  uuid.UUID
	Total    Money
	Status   OrderStatus
	Shipping ShippingInfo
	Items    []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem lives and dies with its parent order. PriceAtOrder is a snapshot
// of the unit price at creation time, never the live catalog price.
type OrderItem struct {
	ProductID    uuid.UUID
	Quantity     int
	PriceAtOrder Money

	CreatedAt time.Time
}

// ShippingInfo is required in full at creation and immutable afterwards.
type ShippingInfo struct {
	Address    string
	City       string
	PostalCode string
	Country    string
}

func (s ShippingInfo) Validate() error {
	if s.Address == "" || s.City == "" || s.PostalCode == "" || s.Country == "" {
		return ErrInvalidInput
	}
	return nil
}

// OrderLineRequest is a single requested line of a new order.
// A zero Quantity defaults to 1 during validation.
type OrderLineRequest struct {
	ProductID uuid.UUID
	Quantity  int
}
