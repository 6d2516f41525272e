package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/interfaces/http/response"
	"homeservice.backend/internal/usecases"
)

// CatalogHandler serves the public service catalog
type CatalogHandler struct {
	catalogUsecase *usecases.CatalogUsecase
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogUsecase *usecases.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase}
}

// ListCategories lists service categories
// GET /api/v1/catalog/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogUsecase.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": categories})
}

// ListServices lists services, optionally within one category
// GET /api/v1/catalog/services?categoryId=
func (h *CatalogHandler) ListServices(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("Invalid category ID"))
			return
		}
		categoryID = &id
	}

	services, err := h.catalogUsecase.ListServices(c.Request.Context(), categoryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": services})
}

// GetService returns one service
// GET /api/v1/catalog/services/:id
func (h *CatalogHandler) GetService(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	service, err := h.catalogUsecase.GetService(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, service)
}

// pathUUID parses a uuid path parameter, writing a 400 when it is malformed
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
