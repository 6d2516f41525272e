package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"homeservice.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByPhone(ctx context.Context, phone string) (*entities.User, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, at time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.UserStatus, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserInfoRepository defines customer profile operations
type UserInfoRepository interface {
	Create(ctx context.Context, info *entities.UserInfo) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.UserInfo, error)
}
