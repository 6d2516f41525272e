package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/infrastructure/models"
)

// VerificationCodeRepository implements one-time code storage
type VerificationCodeRepository struct {
	db *gorm.DB
}

// NewVerificationCodeRepository creates a new verification code repository
func NewVerificationCodeRepository(db *gorm.DB) *VerificationCodeRepository {
	return &VerificationCodeRepository{db: db}
}

// Create stores an issued code
func (r *VerificationCodeRepository) Create(ctx context.Context, code *entities.VerificationCode) error {
	m := &models.VerificationCode{
		ID:        code.ID,
		Phone:     code.Phone,
		Code:      code.Code,
		CreatedAt: code.CreatedAt,
		UsedAt:    code.UsedAt.Ptr(),
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// FindValid returns the newest unused matching row created at or after since
func (r *VerificationCodeRepository) FindValid(ctx context.Context, phone, code string, since time.Time) (*entities.VerificationCode, error) {
	var m models.VerificationCode
	err := GetDB(ctx, r.db).
		Where("phone = ? AND code = ? AND used_at IS NULL AND created_at >= ?", phone, code, since).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.VerificationCode{
		ID:        m.ID,
		Phone:     m.Phone,
		Code:      m.Code,
		CreatedAt: m.CreatedAt,
		UsedAt:    null.TimeFromPtr(m.UsedAt),
	}, nil
}

// MarkUsed consumes a row. A row already consumed yields ErrNotFound.
func (r *VerificationCodeRepository) MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := GetDB(ctx, r.db).
		Model(&models.VerificationCode{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteCreatedBefore purges codes for every phone issued before cutoff
func (r *VerificationCodeRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := GetDB(ctx, r.db).Where("created_at < ?", cutoff).Delete(&models.VerificationCode{})
	return result.RowsAffected, result.Error
}

// LockThrottle creates the phone's throttle row if needed and reads it under a row lock
func (r *VerificationCodeRepository) LockThrottle(ctx context.Context, phone string) (time.Time, error) {
	db := GetDB(ctx, r.db)
	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.VerificationCodeThrottle{Phone: phone}).Error
	if err != nil {
		return time.Time{}, err
	}

	var m models.VerificationCodeThrottle
	err = db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("phone = ?", phone).
		First(&m).Error
	if err != nil {
		return time.Time{}, err
	}
	if m.LastIssuedAt == nil {
		return time.Time{}, nil
	}
	return *m.LastIssuedAt, nil
}

// TouchThrottle records an issue time for phone
func (r *VerificationCodeRepository) TouchThrottle(ctx context.Context, phone string, at time.Time) error {
	return GetDB(ctx, r.db).
		Model(&models.VerificationCodeThrottle{}).
		Where("phone = ?", phone).
		Update("last_issued_at", at).Error
}
