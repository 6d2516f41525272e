package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/interfaces/http/middleware"
	"homeservice.backend/internal/interfaces/http/response"
	"homeservice.backend/internal/usecases"
)

// AddressHandler manages the caller's address book
type AddressHandler struct {
	addressUsecase *usecases.AddressUsecase
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(addressUsecase *usecases.AddressUsecase) *AddressHandler {
	return &AddressHandler{addressUsecase: addressUsecase}
}

// ListAddresses lists the caller's live addresses
// GET /api/v1/addresses
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	addresses, err := h.addressUsecase.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": addresses})
}

// AddAddress appends an address, optionally making it the default
// POST /api/v1/addresses
func (h *AddressHandler) AddAddress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.CreateAddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.ErrInvalidAddress)
		return
	}

	address, err := h.addressUsecase.AddAddress(c.Request.Context(), userID, input.Address, input.MakeDefault)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, address)
}

// SetDefault makes one address the default
// PUT /api/v1/addresses/:id/default
func (h *AddressHandler) SetDefault(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}
	addressID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.addressUsecase.SetDefault(c.Request.Context(), userID, addressID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveAddress soft-deletes an address
// DELETE /api/v1/addresses/:id
func (h *AddressHandler) RemoveAddress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}
	addressID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.addressUsecase.RemoveAddress(c.Request.Context(), userID, addressID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
