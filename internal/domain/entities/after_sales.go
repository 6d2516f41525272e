package entities

import (
	"time"

	"github.com/google/uuid"
)

// AfterSalesType is the kind of remediation requested
type AfterSalesType string

const (
	AfterSalesRefund    AfterSalesType = "refund"
	AfterSalesRework    AfterSalesType = "rework"
	AfterSalesComplaint AfterSalesType = "complaint"
)

// Valid reports whether t is a known type.
func (t AfterSalesType) Valid() bool {
	switch t {
	case AfterSalesRefund, AfterSalesRework, AfterSalesComplaint:
		return true
	}
	return false
}

// AfterSalesStatus is the handling state of a ticket
type AfterSalesStatus string

const (
	AfterSalesPending  AfterSalesStatus = "pending"
	AfterSalesResolved AfterSalesStatus = "resolved"
	AfterSalesRejected AfterSalesStatus = "rejected"
)

// AfterSales is a dispute or remediation ticket raised against an order
type AfterSales struct {
	ID        uuid.UUID        `json:"id"`
	OrderID   uuid.UUID        `json:"orderId"`
	Type      AfterSalesType   `json:"type"`
	Status    AfterSalesStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// OpenAfterSalesInput represents input for raising a ticket
type OpenAfterSalesInput struct {
	Type AfterSalesType `json:"type" binding:"required"`
}

// ResolveAfterSalesInput represents an admin decision on a ticket
type ResolveAfterSalesInput struct {
	Status AfterSalesStatus `json:"status" binding:"required,oneof=resolved rejected"`
}
