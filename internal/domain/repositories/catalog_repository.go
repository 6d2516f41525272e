package repositories

import (
	"context"

	"github.com/google/uuid"
	"homeservice.backend/internal/domain/entities"
)

// CatalogRepository defines read access to categories, services and providers
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]*entities.ServiceCategory, error)
	ListServices(ctx context.Context, categoryID *uuid.UUID) ([]*entities.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*entities.Service, error)
	GetProvider(ctx context.Context, id uuid.UUID) (*entities.ServiceProvider, error)
	GetProviderByUserID(ctx context.Context, userID uuid.UUID) (*entities.ServiceProvider, error)
}
