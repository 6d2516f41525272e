package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"homeservice.backend/internal/domain/entities"
)

// AddressRepository defines address book operations. Deleted rows are excluded everywhere.
type AddressRepository interface {
	Create(ctx context.Context, entry *entities.AddressEntry) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.AddressEntry, error)
	GetOwned(ctx context.Context, userID, id uuid.UUID) (*entities.AddressEntry, error)
	GetDefault(ctx context.Context, userID uuid.UUID) (*entities.AddressEntry, error)
	ClearDefault(ctx context.Context, userID uuid.UUID, at time.Time) error
	MarkDefault(ctx context.Context, id uuid.UUID, at time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
