package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusCompleted      OrderStatus = "completed"
)

// orderTransitions lists, per target state, the states it may be entered from.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPaid:      {OrderStatusPendingPayment},
	OrderStatusCompleted: {OrderStatusPaid},
	OrderStatusCancelled: {OrderStatusPendingPayment, OrderStatusPaid},
}

// AllowedFrom returns the states from which an order may move to target.
func AllowedFrom(target OrderStatus) []OrderStatus {
	return orderTransitions[target]
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range orderTransitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusCompleted
}

// Order represents a booking of one service by one customer
type Order struct {
	ID         uuid.UUID   `json:"id"`
	CustomerID uuid.UUID   `json:"customerId"`
	ProviderID uuid.UUID   `json:"providerId"`
	ServiceID  uuid.UUID   `json:"serviceId"`
	AddressID  uuid.UUID   `json:"addressId"`
	Status     OrderStatus `json:"status"`
	StartTime  null.Time   `json:"startTime"`
	EndTime    null.Time   `json:"endTime"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// CreateOrderInput represents input for booking a service
type CreateOrderInput struct {
	ProviderID uuid.UUID  `json:"providerId" binding:"required"`
	ServiceID  uuid.UUID  `json:"serviceId" binding:"required"`
	AddressID  *uuid.UUID `json:"addressId"`
	StartTime  *time.Time `json:"startTime"`
}
