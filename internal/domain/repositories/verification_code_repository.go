package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"homeservice.backend/internal/domain/entities"
)

// VerificationCodeRepository defines one-time code storage
type VerificationCodeRepository interface {
	Create(ctx context.Context, code *entities.VerificationCode) error
	// FindValid returns the newest unused row for phone+code created at or after since.
	FindValid(ctx context.Context, phone, code string, since time.Time) (*entities.VerificationCode, error)
	// MarkUsed sets used_at only if the row is still unused.
	MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// LockThrottle locks the per-phone issue marker, creating it when absent.
	// The zero time is returned for a phone that was never issued a code.
	LockThrottle(ctx context.Context, phone string) (time.Time, error)
	TouchThrottle(ctx context.Context, phone string, at time.Time) error
}
