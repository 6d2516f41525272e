package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/interfaces/http/response"
	"homeservice.backend/internal/usecases"
)

// AdminHandler handles back-office decisions
type AdminHandler struct {
	orderUsecase *usecases.OrderUsecase
	authUsecase  *usecases.AuthUsecase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(orderUsecase *usecases.OrderUsecase, authUsecase *usecases.AuthUsecase) *AdminHandler {
	return &AdminHandler{
		orderUsecase: orderUsecase,
		authUsecase:  authUsecase,
	}
}

// ResolveAfterSales resolves or rejects a pending ticket
// PUT /api/v1/admin/after-sales/:id
func (h *AdminHandler) ResolveAfterSales(c *gin.Context) {
	ticketID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input entities.ResolveAfterSalesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.ErrInvalidAfterSales)
		return
	}

	ticket, err := h.orderUsecase.ResolveAfterSales(c.Request.Context(), ticketID, input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, ticket)
}

// ModerateReview approves or rejects a pending review
// PUT /api/v1/admin/reviews/:id
func (h *AdminHandler) ModerateReview(c *gin.Context) {
	reviewID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input entities.ModerateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	review, err := h.orderUsecase.ModerateReview(c.Request.Context(), reviewID, input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

// SetUserStatus freezes, closes or reactivates an account
// PUT /api/v1/admin/users/:id/status
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Status entities.UserStatus `json:"status" binding:"required,oneof=active frozen closed"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	if err := h.authUsecase.SetUserStatus(c.Request.Context(), userID, input.Status); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteUser removes an account that no order references
// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.authUsecase.DeleteUser(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
