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

// AddressRepository implements address book operations
type AddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository creates a new address repository
func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// Create inserts an entry. A second live default for the user yields ErrDefaultAddressRace.
func (r *AddressRepository) Create(ctx context.Context, entry *entities.AddressEntry) error {
	m := &models.AddressBook{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Address:   entry.Address,
		IsDefault: entry.IsDefault,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return translateAddressErr(err)
	}
	return nil
}

// CountByUser counts live entries
func (r *AddressRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.AddressBook{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ListByUser lists live entries, default first
func (r *AddressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.AddressEntry, error) {
	var rows []models.AddressBook
	err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*entities.AddressEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, toAddressEntity(&rows[i]))
	}
	return entries, nil
}

// GetOwned gets an entry only if it belongs to userID
func (r *AddressRepository) GetOwned(ctx context.Context, userID, id uuid.UUID) (*entities.AddressEntry, error) {
	return r.first(ctx, "id = ? AND user_id = ?", id, userID)
}

// GetDefault gets the user's default entry
func (r *AddressRepository) GetDefault(ctx context.Context, userID uuid.UUID) (*entities.AddressEntry, error) {
	return r.first(ctx, "user_id = ? AND is_default = ?", userID, true)
}

func (r *AddressRepository) first(ctx context.Context, query string, args ...interface{}) (*entities.AddressEntry, error) {
	var m models.AddressBook
	if err := GetDB(ctx, r.db).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toAddressEntity(&m), nil
}

// ClearDefault unsets the current default, if any
func (r *AddressRepository) ClearDefault(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return GetDB(ctx, r.db).
		Model(&models.AddressBook{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Updates(map[string]interface{}{"is_default": false, "updated_at": at}).Error
}

// MarkDefault flags one entry as default
func (r *AddressRepository) MarkDefault(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := GetDB(ctx, r.db).
		Model(&models.AddressBook{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_default": true, "updated_at": at})
	if result.Error != nil {
		return translateAddressErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SoftDelete clears the default flag and hides the entry; orders keep referencing it
func (r *AddressRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Model(&models.AddressBook{}).Where("id = ?", id).Update("is_default", false).Error; err != nil {
		return err
	}
	result := db.Delete(&models.AddressBook{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func translateAddressErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerrors.ErrDefaultAddressRace
	}
	return err
}

func toAddressEntity(m *models.AddressBook) *entities.AddressEntry {
	return &entities.AddressEntry{
		ID:        m.ID,
		UserID:    m.UserID,
		Address:   m.Address,
		IsDefault: m.IsDefault,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
