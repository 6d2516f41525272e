package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/infrastructure/models"
)

// CatalogRepository implements read access to the service catalog
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCategories lists all categories by name
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]*entities.ServiceCategory, error) {
	var rows []models.ServiceCategory
	if err := GetDB(ctx, r.db).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.ServiceCategory, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entities.ServiceCategory{ID: m.ID, Name: m.Name, Icon: m.Icon})
	}
	return out, nil
}

// ListServices lists services, optionally within one category
func (r *CatalogRepository) ListServices(ctx context.Context, categoryID *uuid.UUID) ([]*entities.Service, error) {
	query := GetDB(ctx, r.db).Order("name ASC")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var rows []models.Service
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Service, 0, len(rows))
	for i := range rows {
		out = append(out, toServiceEntity(&rows[i]))
	}
	return out, nil
}

// GetService gets a service by ID
func (r *CatalogRepository) GetService(ctx context.Context, id uuid.UUID) (*entities.Service, error) {
	var m models.Service
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toServiceEntity(&m), nil
}

// GetProvider gets a provider profile by ID
func (r *CatalogRepository) GetProvider(ctx context.Context, id uuid.UUID) (*entities.ServiceProvider, error) {
	return r.firstProvider(ctx, "id = ?", id)
}

// GetProviderByUserID gets the provider profile owned by a user
func (r *CatalogRepository) GetProviderByUserID(ctx context.Context, userID uuid.UUID) (*entities.ServiceProvider, error) {
	return r.firstProvider(ctx, "user_id = ?", userID)
}

func (r *CatalogRepository) firstProvider(ctx context.Context, query string, arg interface{}) (*entities.ServiceProvider, error) {
	var m models.ServiceProviderInfo
	if err := GetDB(ctx, r.db).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.ServiceProvider{
		ID:           m.ID,
		UserID:       m.UserID,
		ServiceArea:  m.ServiceArea,
		Introduction: m.Introduction,
	}, nil
}

func toServiceEntity(m *models.Service) *entities.Service {
	return &entities.Service{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		ProviderID:  m.ProviderID,
		Name:        m.Name,
		Price:       m.Price,
		ServiceType: entities.ServiceType(m.ServiceType),
	}
}
