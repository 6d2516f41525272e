package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. A taken phone yields ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:           user.ID,
		Phone:        user.Phone,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		Status:       string(user.Status),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toUserEntity(&m), nil
}

// GetByPhone gets a user by phone
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("phone = ?", phone).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toUserEntity(&m), nil
}

// ExistsByPhone reports whether an account is registered for phone
func (r *UserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&models.User{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdatePassword replaces the stored hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    at,
	})
}

// UpdateStatus sets the account status
func (r *UserRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.UserStatus, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"status":     string(status),
		"updated_at": at,
	})
}

func (r *UserRepository) updateColumns(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := GetDB(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Delete hard-deletes a user. Profile, certification and address rows cascade;
// orders placed by the user or assigned to their provider profile block the
// delete with ErrUserHasOrders. Call it inside a transaction so the check and
// the delete see the same rows.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)

	var referenced int64
	providerIDs := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.ServiceProviderInfo{}).
		Select("id").
		Where("user_id = ?", id)
	err := db.Model(&models.Order{}).
		Where("customer_id = ? OR provider_id IN (?)", id, providerIDs).
		Count(&referenced).Error
	if err != nil {
		return err
	}
	if referenced > 0 {
		return domainerrors.ErrUserHasOrders
	}

	result := db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return domainerrors.ErrUserHasOrders
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toUserEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:           m.ID,
		Phone:        m.Phone,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         entities.UserRole(m.Role),
		Status:       entities.UserStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// UserInfoRepository implements customer profile operations
type UserInfoRepository struct {
	db *gorm.DB
}

// NewUserInfoRepository creates a new profile repository
func NewUserInfoRepository(db *gorm.DB) *UserInfoRepository {
	return &UserInfoRepository{db: db}
}

// Create stores a profile
func (r *UserInfoRepository) Create(ctx context.Context, info *entities.UserInfo) error {
	m := &models.UserInfo{
		ID:        info.ID,
		UserID:    info.UserID,
		Nickname:  info.Nickname,
		Gender:    string(info.Gender),
		Birthday:  info.Birthday.Ptr(),
		Avatar:    info.Avatar,
		CreatedAt: info.CreatedAt,
		UpdatedAt: info.UpdatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByUserID gets the profile of a user
func (r *UserInfoRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserInfo, error) {
	var m models.UserInfo
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.UserInfo{
		ID:        m.ID,
		UserID:    m.UserID,
		Nickname:  m.Nickname,
		Gender:    entities.Gender(m.Gender),
		Birthday:  null.TimeFromPtr(m.Birthday),
		Avatar:    m.Avatar,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
