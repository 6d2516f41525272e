package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/domain/repositories"
	"homeservice.backend/pkg/logger"
	"homeservice.backend/pkg/metrics"
	"homeservice.backend/pkg/utils"
)

// maxPaymentAmount is the first value that no longer fits numeric(10,2).
var maxPaymentAmount = decimal.New(1, 8)

// Actor is the authenticated caller of an order operation
type Actor struct {
	UserID uuid.UUID
	Role   entities.UserRole
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == entities.UserRoleAdmin
}

// FeeRates maps a payment channel to the fraction it withholds
type FeeRates map[entities.PaymentMethod]decimal.Decimal

// OrderRepos groups the storage an OrderUsecase works on
type OrderRepos struct {
	Orders     repositories.OrderRepository
	Payments   repositories.PaymentRepository
	AfterSales repositories.AfterSalesRepository
	Reviews    repositories.ReviewRepository
	Catalog    repositories.CatalogRepository
	Addresses  repositories.AddressRepository
}

// OrderUsecase drives the order lifecycle and the workflows hanging off it
type OrderUsecase struct {
	orderRepo      repositories.OrderRepository
	paymentRepo    repositories.PaymentRepository
	afterSalesRepo repositories.AfterSalesRepository
	reviewRepo     repositories.ReviewRepository
	catalogRepo    repositories.CatalogRepository
	addressRepo    repositories.AddressRepository
	uow            repositories.UnitOfWork
	feeRates       FeeRates
	now            func() time.Time
}

// NewOrderUsecase creates a new order usecase
func NewOrderUsecase(repos OrderRepos, uow repositories.UnitOfWork, feeRates FeeRates, now func() time.Time) *OrderUsecase {
	if feeRates == nil {
		feeRates = FeeRates{}
	}
	if now == nil {
		now = time.Now
	}
	return &OrderUsecase{
		orderRepo:      repos.Orders,
		paymentRepo:    repos.Payments,
		afterSalesRepo: repos.AfterSales,
		reviewRepo:     repos.Reviews,
		catalogRepo:    repos.Catalog,
		addressRepo:    repos.Addresses,
		uow:            uow,
		feeRates:       feeRates,
		now:            now,
	}
}

// CreateOrder books a service for customerID. Without an explicit address the
// customer's default is used.
func (u *OrderUsecase) CreateOrder(ctx context.Context, customerID uuid.UUID, input *entities.CreateOrderInput) (*entities.Order, error) {
	service, err := u.catalogRepo.GetService(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.OfferedBy(input.ProviderID) {
		return nil, domainerrors.ErrProviderMismatch
	}
	if _, err := u.catalogRepo.GetProvider(ctx, input.ProviderID); err != nil {
		return nil, err
	}

	address, err := u.resolveAddress(ctx, customerID, input.AddressID)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	order := &entities.Order{
		ID:         utils.GenerateUUIDv7(),
		CustomerID: customerID,
		ProviderID: input.ProviderID,
		ServiceID:  service.ID,
		AddressID:  address.ID,
		Status:     entities.OrderStatusPendingPayment,
		StartTime:  null.TimeFromPtr(input.StartTime),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("service_id", service.ID.String()),
		zap.String("provider_id", input.ProviderID.String()),
	)
	return order, nil
}

func (u *OrderUsecase) resolveAddress(ctx context.Context, customerID uuid.UUID, addressID *uuid.UUID) (*entities.AddressEntry, error) {
	if addressID == nil {
		address, err := u.addressRepo.GetDefault(ctx, customerID)
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrNoDefaultAddress
		}
		return address, err
	}
	address, err := u.addressRepo.GetOwned(ctx, customerID, *addressID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, domainerrors.ErrForeignAddress
	}
	return address, err
}

// GetOrder returns an order visible to actor
func (u *OrderUsecase) GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*entities.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.authorizeView(ctx, actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders lists a customer's orders, newest first
func (u *OrderUsecase) ListOrders(ctx context.Context, customerID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Order, utils.PaginationMeta, error) {
	orders, total, err := u.orderRepo.ListByCustomer(ctx, customerID, pagination.Limit, pagination.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return orders, utils.CalculateMeta(total, pagination.Page, pagination.Limit), nil
}

// ListPayments lists the payment attempts of an order visible to actor
func (u *OrderUsecase) ListPayments(ctx context.Context, actor Actor, orderID uuid.UUID) ([]*entities.Payment, error) {
	if _, err := u.GetOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}
	return u.paymentRepo.ListByOrder(ctx, orderID)
}

// ConfirmPayment records a payment attempt. A successful attempt moves the
// order to paid; a failed one leaves it pending so the customer can retry.
func (u *OrderUsecase) ConfirmPayment(ctx context.Context, actor Actor, orderID uuid.UUID, input *entities.ConfirmPaymentInput) (*entities.Payment, error) {
	if !input.Amount.IsPositive() || input.Amount.Exponent() < -2 || input.Amount.GreaterThanOrEqual(maxPaymentAmount) {
		return nil, domainerrors.ErrInvalidAmount
	}
	if !input.Method.Valid() {
		return nil, domainerrors.ErrInvalidPaymentMethod
	}
	outcome := input.Outcome
	if outcome == "" {
		outcome = entities.PaymentStatusSuccess
	}
	if outcome != entities.PaymentStatusSuccess && outcome != entities.PaymentStatusFailed {
		return nil, domainerrors.ErrInvalidInput
	}

	var payment *entities.Payment
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		order, err := u.lockOrder(txCtx, actor, orderID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && order.CustomerID != actor.UserID {
			return domainerrors.ErrForbidden
		}
		if order.Status != entities.OrderStatusPendingPayment {
			return domainerrors.ErrInvalidState
		}

		if outcome == entities.PaymentStatusSuccess {
			if err := u.orderRepo.Transition(txCtx, orderID, entities.AllowedFrom(entities.OrderStatusPaid), entities.OrderStatusPaid, null.Time{}, u.now().UTC()); err != nil {
				return err
			}
		}

		payment = &entities.Payment{
			ID:         utils.GenerateUUIDv7(),
			OrderID:    orderID,
			Amount:     input.Amount,
			Method:     input.Method,
			ChannelFee: u.channelFee(input.Amount, input.Method),
			Status:     outcome,
			CreatedAt:  u.now().UTC(),
		}
		return u.paymentRepo.Create(txCtx, payment)
	})
	if err != nil {
		return nil, err
	}

	if outcome == entities.PaymentStatusSuccess {
		u.recordTransition(ctx, orderID, entities.OrderStatusPendingPayment, entities.OrderStatusPaid)
	} else {
		logger.Info(ctx, "Payment attempt failed",
			zap.String("order_id", orderID.String()),
			zap.String("method", string(input.Method)),
		)
	}
	return payment, nil
}

func (u *OrderUsecase) channelFee(amount decimal.Decimal, method entities.PaymentMethod) decimal.Decimal {
	rate, ok := u.feeRates[method]
	if !ok {
		return decimal.Zero
	}
	return amount.Mul(rate).Round(2)
}

// Complete marks a paid order as fulfilled. Only the assigned provider or an admin may do so.
func (u *OrderUsecase) Complete(ctx context.Context, actor Actor, orderID uuid.UUID) (*entities.Order, error) {
	var order *entities.Order
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		order, err = u.lockOrder(txCtx, actor, orderID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			isProvider, err := u.isOrderProvider(txCtx, actor, order)
			if err != nil {
				return err
			}
			if !isProvider {
				return domainerrors.ErrForbidden
			}
		}

		endTime := order.EndTime
		if !endTime.Valid {
			endTime = null.TimeFrom(u.now().UTC())
		}
		if err := u.orderRepo.Transition(txCtx, orderID, entities.AllowedFrom(entities.OrderStatusCompleted), entities.OrderStatusCompleted, endTime, u.now().UTC()); err != nil {
			return err
		}
		order.Status = entities.OrderStatusCompleted
		order.EndTime = endTime
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.recordTransition(ctx, orderID, entities.OrderStatusPaid, entities.OrderStatusCompleted)
	return order, nil
}

// Cancel cancels an order that is pending payment or paid. Payments are not reversed.
func (u *OrderUsecase) Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) (*entities.Order, error) {
	var (
		order *entities.Order
		from  entities.OrderStatus
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		order, err = u.lockOrder(txCtx, actor, orderID)
		if err != nil {
			return err
		}
		from = order.Status
		if err := u.orderRepo.Transition(txCtx, orderID, entities.AllowedFrom(entities.OrderStatusCancelled), entities.OrderStatusCancelled, null.Time{}, u.now().UTC()); err != nil {
			return err
		}
		order.Status = entities.OrderStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.recordTransition(ctx, orderID, from, entities.OrderStatusCancelled)
	return order, nil
}

// OpenAfterSales raises a ticket against a paid or completed order
func (u *OrderUsecase) OpenAfterSales(ctx context.Context, actor Actor, orderID uuid.UUID, ticketType entities.AfterSalesType) (*entities.AfterSales, error) {
	if !ticketType.Valid() {
		return nil, domainerrors.ErrInvalidAfterSales
	}

	var ticket *entities.AfterSales
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		order, err := u.lockOrder(txCtx, actor, orderID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && order.CustomerID != actor.UserID {
			return domainerrors.ErrForbidden
		}
		if order.Status != entities.OrderStatusPaid && order.Status != entities.OrderStatusCompleted {
			return domainerrors.ErrInvalidState
		}

		now := u.now().UTC()
		ticket = &entities.AfterSales{
			ID:        utils.GenerateUUIDv7(),
			OrderID:   orderID,
			Type:      ticketType,
			Status:    entities.AfterSalesPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return u.afterSalesRepo.Create(txCtx, ticket)
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// ResolveAfterSales records an admin decision on a pending ticket. Resolving a
// refund on a paid order cancels the order in the same transaction.
func (u *OrderUsecase) ResolveAfterSales(ctx context.Context, ticketID uuid.UUID, status entities.AfterSalesStatus) (*entities.AfterSales, error) {
	if status != entities.AfterSalesResolved && status != entities.AfterSalesRejected {
		return nil, domainerrors.ErrInvalidAfterSales
	}

	var (
		ticket    *entities.AfterSales
		cancelled bool
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		ticket, err = u.afterSalesRepo.GetByID(u.uow.WithLock(txCtx), ticketID)
		if err != nil {
			return err
		}
		if err := u.afterSalesRepo.UpdateStatus(txCtx, ticketID, entities.AfterSalesPending, status, u.now().UTC()); err != nil {
			return err
		}
		ticket.Status = status

		if status != entities.AfterSalesResolved || ticket.Type != entities.AfterSalesRefund {
			return nil
		}
		order, err := u.orderRepo.GetByID(u.uow.WithLock(txCtx), ticket.OrderID)
		if err != nil {
			return err
		}
		if order.Status != entities.OrderStatusPaid {
			return nil
		}
		if err := u.orderRepo.Transition(txCtx, order.ID, []entities.OrderStatus{entities.OrderStatusPaid}, entities.OrderStatusCancelled, null.Time{}, u.now().UTC()); err != nil {
			return err
		}
		cancelled = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cancelled {
		u.recordTransition(ctx, ticket.OrderID, entities.OrderStatusPaid, entities.OrderStatusCancelled)
	}
	return ticket, nil
}

// SubmitReview leaves feedback on a completed order; it awaits moderation
func (u *OrderUsecase) SubmitReview(ctx context.Context, actor Actor, orderID uuid.UUID, content string) (*entities.Review, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domainerrors.ErrInvalidReview
	}

	var review *entities.Review
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		order, err := u.lockOrder(txCtx, actor, orderID)
		if err != nil {
			return err
		}
		if order.CustomerID != actor.UserID {
			return domainerrors.ErrForbidden
		}
		if order.Status != entities.OrderStatusCompleted {
			return domainerrors.ErrInvalidState
		}

		now := u.now().UTC()
		review = &entities.Review{
			ID:        utils.GenerateUUIDv7(),
			OrderID:   orderID,
			Content:   content,
			Status:    entities.ReviewPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return u.reviewRepo.Create(txCtx, review)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ModerateReview approves or rejects a review awaiting moderation
func (u *OrderUsecase) ModerateReview(ctx context.Context, reviewID uuid.UUID, status entities.ReviewStatus) (*entities.Review, error) {
	if status != entities.ReviewApproved && status != entities.ReviewRejected {
		return nil, domainerrors.ErrInvalidInput
	}

	var review *entities.Review
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		review, err = u.reviewRepo.GetByID(u.uow.WithLock(txCtx), reviewID)
		if err != nil {
			return err
		}
		if err := u.reviewRepo.UpdateStatus(txCtx, reviewID, entities.ReviewPending, status, u.now().UTC()); err != nil {
			return err
		}
		review.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ExpirePendingOrders cancels up to limit orders left unpaid for longer than
// olderThan. Orders paid in the meantime are skipped.
func (u *OrderUsecase) ExpirePendingOrders(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	stale, err := u.orderRepo.ListPendingCreatedBefore(ctx, u.now().UTC().Add(-olderThan), limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, order := range stale {
		err := u.uow.Do(ctx, func(txCtx context.Context) error {
			return u.orderRepo.Transition(txCtx, order.ID, []entities.OrderStatus{entities.OrderStatusPendingPayment}, entities.OrderStatusCancelled, null.Time{}, u.now().UTC())
		})
		if errors.Is(err, domainerrors.ErrInvalidState) {
			continue
		}
		if err != nil {
			return expired, err
		}
		expired++
		u.recordTransition(ctx, order.ID, entities.OrderStatusPendingPayment, entities.OrderStatusCancelled)
	}
	return expired, nil
}

// lockOrder loads the order under a row lock and hides it from unrelated actors.
func (u *OrderUsecase) lockOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*entities.Order, error) {
	order, err := u.orderRepo.GetByID(u.uow.WithLock(ctx), orderID)
	if err != nil {
		return nil, err
	}
	if err := u.authorizeView(ctx, actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (u *OrderUsecase) authorizeView(ctx context.Context, actor Actor, order *entities.Order) error {
	if actor.IsAdmin() || order.CustomerID == actor.UserID {
		return nil
	}
	isProvider, err := u.isOrderProvider(ctx, actor, order)
	if err != nil {
		return err
	}
	if !isProvider {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (u *OrderUsecase) isOrderProvider(ctx context.Context, actor Actor, order *entities.Order) (bool, error) {
	if actor.Role != entities.UserRoleProvider {
		return false, nil
	}
	provider, err := u.catalogRepo.GetProviderByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return provider.ID == order.ProviderID, nil
}

func (u *OrderUsecase) recordTransition(ctx context.Context, orderID uuid.UUID, from, to entities.OrderStatus) {
	metrics.RecordOrderTransition(string(from), string(to))
	logger.Info(ctx, "Order transitioned",
		zap.String("order_id", orderID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
}
