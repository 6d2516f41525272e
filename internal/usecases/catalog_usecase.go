package usecases

import (
	"context"

	"github.com/google/uuid"
	"homeservice.backend/internal/domain/entities"
	"homeservice.backend/internal/domain/repositories"
)

// CatalogUsecase exposes the read side of categories and services
type CatalogUsecase struct {
	catalogRepo repositories.CatalogRepository
}

// NewCatalogUsecase creates a new catalog usecase
func NewCatalogUsecase(catalogRepo repositories.CatalogRepository) *CatalogUsecase {
	return &CatalogUsecase{catalogRepo: catalogRepo}
}

// ListCategories lists all service categories
func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]*entities.ServiceCategory, error) {
	return u.catalogRepo.ListCategories(ctx)
}

// ListServices lists services, optionally restricted to one category
func (u *CatalogUsecase) ListServices(ctx context.Context, categoryID *uuid.UUID) ([]*entities.Service, error) {
	return u.catalogRepo.ListServices(ctx, categoryID)
}

// GetService gets a service by ID
func (u *CatalogUsecase) GetService(ctx context.Context, id uuid.UUID) (*entities.Service, error) {
	return u.catalogRepo.GetService(ctx, id)
}
