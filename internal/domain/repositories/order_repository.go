package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"homeservice.backend/internal/domain/entities"
)

// OrderRepository defines order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entities.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entities.Order, int64, error)
	// Transition moves the order to `to` only while its status is one of from,
	// stamping updated_at with at. It returns ErrInvalidState when no row matched.
	Transition(ctx context.Context, id uuid.UUID, from []entities.OrderStatus, to entities.OrderStatus, endTime null.Time, at time.Time) error
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*entities.Order, error)
}

// PaymentRepository defines payment ledger operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entities.Payment) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entities.Payment, error)
}

// AfterSalesRepository defines after-sales ticket operations
type AfterSalesRepository interface {
	Create(ctx context.Context, ticket *entities.AfterSales) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.AfterSales, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.AfterSalesStatus, at time.Time) error
}

// ReviewRepository defines review operations
type ReviewRepository interface {
	Create(ctx context.Context, review *entities.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Review, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.ReviewStatus, at time.Time) error
}
