package domain

import (
	"fmt"
	"time"
)

// OrderStatus is the lifecycle stage of an order. The ordinal values are part
// of the persisted formats and must not be reordered.
type OrderStatus int

const (
	OrderReceived OrderStatus = iota
	OrderPreparing
	OrderCooking
	OrderPacked
	OrderReady
)

// String returns a human-readable order status.
func (s OrderStatus) String() string {
	switch s {
	case OrderReceived:
		return "Received"
	case OrderPreparing:
		return "Preparing"
	case OrderCooking:
		return "Cooking"
	case OrderPacked:
		return "Packed"
	case OrderReady:
		return "Ready"
	default:
		return "?"
	}
}

// Valid reports whether s is one of the known stages.
func (s OrderStatus) Valid() bool { return s >= OrderReceived && s <= OrderReady }

// Terminal reports whether no further transition exists.
func (s OrderStatus) Terminal() bool { return s == OrderReady }

// Next returns the following stage. Ready maps to itself.
func (s OrderStatus) Next() OrderStatus {
	if s >= OrderReady {
		return OrderReady
	}
	return s + 1
}

// ParseOrderStatus converts a persisted ordinal into a status.
func ParseOrderStatus(ordinal int) (OrderStatus, error) {
	s := OrderStatus(ordinal)
	if !s.Valid() {
		return 0, &ValidationError{Field: "order status", Reason: fmt.Sprintf("unknown ordinal %d", ordinal)}
	}
	return s, nil
}

// OrderStatuses lists every stage in forward order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderReceived, OrderPreparing, OrderCooking, OrderPacked, OrderReady}
}

// Order ties a user to one dish and tracks where it is in the kitchen.
type Order struct {
	ID        string
	UserID    string
	DishName  string
	Status    OrderStatus
	PlacedAt  time.Time
	UpdatedAt time.Time
}
