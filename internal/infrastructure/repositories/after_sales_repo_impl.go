package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/infrastructure/models"
)

// AfterSalesRepository implements after-sales ticket operations
type AfterSalesRepository struct {
	db *gorm.DB
}

// NewAfterSalesRepository creates a new after-sales repository
func NewAfterSalesRepository(db *gorm.DB) *AfterSalesRepository {
	return &AfterSalesRepository{db: db}
}

// Create inserts a ticket
func (r *AfterSalesRepository) Create(ctx context.Context, ticket *entities.AfterSales) error {
	m := &models.AfterSales{
		ID:        ticket.ID,
		OrderID:   ticket.OrderID,
		Type:      string(ticket.Type),
		Status:    string(ticket.Status),
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByID gets a ticket by ID
func (r *AfterSalesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.AfterSales, error) {
	var m models.AfterSales
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.AfterSales{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Type:      entities.AfterSalesType(m.Type),
		Status:    entities.AfterSalesStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// UpdateStatus moves a ticket from one status to another, ErrInvalidState if it moved first
func (r *AfterSalesRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.AfterSalesStatus, at time.Time) error {
	return casStatus(GetDB(ctx, r.db).Model(&models.AfterSales{}), id, string(from), string(to), at)
}

// ReviewRepository implements review operations
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review
func (r *ReviewRepository) Create(ctx context.Context, review *entities.Review) error {
	m := &models.Review{
		ID:        review.ID,
		OrderID:   review.OrderID,
		Content:   review.Content,
		Status:    string(review.Status),
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByID gets a review by ID
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Review, error) {
	var m models.Review
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Review{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Content:   m.Content,
		Status:    entities.ReviewStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// UpdateStatus moderates a review
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.ReviewStatus, at time.Time) error {
	return casStatus(GetDB(ctx, r.db).Model(&models.Review{}), id, string(from), string(to), at)
}

func casStatus(db *gorm.DB, id uuid.UUID, from, to string, at time.Time) error {
	result := db.Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidState
	}
	return nil
}
