package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/interfaces/http/middleware"
	"homeservice.backend/internal/interfaces/http/response"
	"homeservice.backend/internal/usecases"
	"homeservice.backend/pkg/utils"
)

// OrderHandler handles bookings and the workflows attached to them
type OrderHandler struct {
	orderUsecase *usecases.OrderUsecase
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderUsecase *usecases.OrderUsecase) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase}
}

// actorFrom builds the authenticated caller, writing a 401 when it is missing
func actorFrom(c *gin.Context) (usecases.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return usecases.Actor{}, false
	}
	role, _ := middleware.GetUserRole(c)
	return usecases.Actor{UserID: userID, Role: role}, true
}

// CreateOrder books a service
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var input entities.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	order, err := h.orderUsecase.CreateOrder(c.Request.Context(), actor.UserID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, order)
}

// ListOrders lists the caller's orders
// GET /api/v1/orders?page=&limit=
func (h *OrderHandler) ListOrders(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var query utils.PaginationParams
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid pagination parameters"))
		return
	}

	orders, meta, err := h.orderUsecase.ListOrders(c.Request.Context(), actor.UserID, utils.GetPaginationParams(query.Page, query.Limit))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, orders, meta)
}

// GetOrder returns one order
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderUsecase.GetOrder(c.Request.Context(), actor, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// ConfirmPayment records a payment attempt
// POST /api/v1/orders/:id/payments
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input entities.ConfirmPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	payment, err := h.orderUsecase.ConfirmPayment(c.Request.Context(), actor, orderID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, payment)
}

// ListPayments lists the payment attempts of an order
// GET /api/v1/orders/:id/payments
func (h *OrderHandler) ListPayments(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	payments, err := h.orderUsecase.ListPayments(c.Request.Context(), actor, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": payments})
}

// Complete marks a paid order fulfilled
// POST /api/v1/orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, h.orderUsecase.Complete)
}

// Cancel cancels an unpaid or paid order
// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.orderUsecase.Cancel)
}

func (h *OrderHandler) transition(c *gin.Context, apply func(ctx context.Context, actor usecases.Actor, id uuid.UUID) (*entities.Order, error)) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := apply(c.Request.Context(), actor, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// OpenAfterSales raises a ticket against an order
// POST /api/v1/orders/:id/after-sales
func (h *OrderHandler) OpenAfterSales(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input entities.OpenAfterSalesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.ErrInvalidAfterSales)
		return
	}

	ticket, err := h.orderUsecase.OpenAfterSales(c.Request.Context(), actor, orderID, input.Type)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ticket)
}

// SubmitReview reviews a completed order
// POST /api/v1/orders/:id/reviews
func (h *OrderHandler) SubmitReview(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input entities.SubmitReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.ErrInvalidReview)
		return
	}

	review, err := h.orderUsecase.SubmitReview(c.Request.Context(), actor, orderID, input.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, review)
}
