package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/infrastructure/models"
)

// OrderRepository implements order data operations
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts an order
func (r *OrderRepository) Create(ctx context.Context, order *entities.Order) error {
	m := &models.Order{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		ProviderID: order.ProviderID,
		ServiceID:  order.ServiceID,
		AddressID:  order.AddressID,
		Status:     string(order.Status),
		StartTime:  order.StartTime.Ptr(),
		EndTime:    order.EndTime.Ptr(),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByID gets an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Order, error) {
	var m models.Order
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toOrderEntity(&m), nil
}

// ListByCustomer lists a customer's orders, newest first
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entities.Order, int64, error) {
	var total int64
	base := GetDB(ctx, r.db).Model(&models.Order{}).Where("customer_id = ?", customerID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := GetDB(ctx, r.db).Where("customer_id = ?", customerID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*entities.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, toOrderEntity(&rows[i]))
	}
	return orders, total, nil
}

// Transition is a compare-and-set on status
func (r *OrderRepository) Transition(ctx context.Context, id uuid.UUID, from []entities.OrderStatus, to entities.OrderStatus, endTime null.Time, at time.Time) error {
	allowed := make([]string, 0, len(from))
	for _, s := range from {
		allowed = append(allowed, string(s))
	}

	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": at,
	}
	if endTime.Valid {
		updates["end_time"] = endTime.Time
	}

	result := GetDB(ctx, r.db).
		Model(&models.Order{}).
		Where("id = ? AND status IN ?", id, allowed).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidState
	}
	return nil
}

// ListPendingCreatedBefore finds unpaid orders older than cutoff
func (r *OrderRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*entities.Order, error) {
	var rows []models.Order
	err := GetDB(ctx, r.db).
		Where("status = ? AND created_at < ?", string(entities.OrderStatusPendingPayment), cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	orders := make([]*entities.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, toOrderEntity(&rows[i]))
	}
	return orders, nil
}

func toOrderEntity(m *models.Order) *entities.Order {
	return &entities.Order{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		ProviderID: m.ProviderID,
		ServiceID:  m.ServiceID,
		AddressID:  m.AddressID,
		Status:     entities.OrderStatus(m.Status),
		StartTime:  null.TimeFromPtr(m.StartTime),
		EndTime:    null.TimeFromPtr(m.EndTime),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// PaymentRepository implements the payment ledger
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create appends a payment row
func (r *PaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	m := &models.Payment{
		ID:         payment.ID,
		OrderID:    payment.OrderID,
		Amount:     payment.Amount,
		Method:     string(payment.Method),
		ChannelFee: payment.ChannelFee,
		Status:     string(payment.Status),
		CreatedAt:  payment.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// ListByOrder lists every attempt for an order in creation order
func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entities.Payment, error) {
	var rows []models.Payment
	if err := GetDB(ctx, r.db).Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Payment, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entities.Payment{
			ID:         m.ID,
			OrderID:    m.OrderID,
			Amount:     m.Amount,
			Method:     entities.PaymentMethod(m.Method),
			ChannelFee: m.ChannelFee,
			Status:     entities.PaymentStatus(m.Status),
			CreatedAt:  m.CreatedAt,
		})
	}
	return out, nil
}
