package usecases

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/domain/repositories"
	"homeservice.backend/pkg/logger"
	"homeservice.backend/pkg/utils"
)

// AddressUsecase manages a user's address book
type AddressUsecase struct {
	addressRepo repositories.AddressRepository
	userRepo    repositories.UserRepository
	uow         repositories.UnitOfWork
	maxEntries  int
	now         func() time.Time
}

// NewAddressUsecase creates a new address usecase
func NewAddressUsecase(
	addressRepo repositories.AddressRepository,
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
	maxEntries int,
	now func() time.Time,
) *AddressUsecase {
	if maxEntries <= 0 {
		maxEntries = entities.DefaultMaxAddresses
	}
	if now == nil {
		now = time.Now
	}
	return &AddressUsecase{
		addressRepo: addressRepo,
		userRepo:    userRepo,
		uow:         uow,
		maxEntries:  maxEntries,
		now:         now,
	}
}

// AddAddress appends an entry, optionally making it the default
func (u *AddressUsecase) AddAddress(ctx context.Context, userID uuid.UUID, text string, makeDefault bool) (*entities.AddressEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > entities.MaxAddressLength {
		return nil, domainerrors.ErrInvalidAddress
	}

	var entry *entities.AddressEntry
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.lockOwner(txCtx, userID); err != nil {
			return err
		}

		count, err := u.addressRepo.CountByUser(txCtx, userID)
		if err != nil {
			return err
		}
		if count >= int64(u.maxEntries) {
			return domainerrors.ErrTooManyAddresses
		}

		now := u.now().UTC()
		if makeDefault {
			if err := u.addressRepo.ClearDefault(txCtx, userID, now); err != nil {
				return err
			}
		}

		entry = &entities.AddressEntry{
			ID:        utils.GenerateUUIDv7(),
			UserID:    userID,
			Address:   text,
			IsDefault: makeDefault,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return u.addressRepo.Create(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// SetDefault moves the default flag to addressID
func (u *AddressUsecase) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.lockOwner(txCtx, userID); err != nil {
			return err
		}
		if _, err := u.addressRepo.GetOwned(txCtx, userID, addressID); err != nil {
			return err
		}
		now := u.now().UTC()
		if err := u.addressRepo.ClearDefault(txCtx, userID, now); err != nil {
			return err
		}
		return u.addressRepo.MarkDefault(txCtx, addressID, now)
	})
}

// RemoveAddress soft-deletes an entry. Removing the default leaves the user without one.
func (u *AddressUsecase) RemoveAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.lockOwner(txCtx, userID); err != nil {
			return err
		}
		if _, err := u.addressRepo.GetOwned(txCtx, userID, addressID); err != nil {
			return err
		}
		return u.addressRepo.SoftDelete(txCtx, addressID)
	})
	if err != nil {
		return err
	}
	logger.Debug(ctx, "Address removed", zap.String("address_id", addressID.String()))
	return nil
}

// ListAddresses lists live entries, default first
func (u *AddressUsecase) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*entities.AddressEntry, error) {
	return u.addressRepo.ListByUser(ctx, userID)
}

// GetDefault returns the user's default entry or ErrNoDefaultAddress
func (u *AddressUsecase) GetDefault(ctx context.Context, userID uuid.UUID) (*entities.AddressEntry, error) {
	entry, err := u.addressRepo.GetDefault(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrNoDefaultAddress
		}
		return nil, err
	}
	return entry, nil
}

// lockOwner serializes address book writes for one user on the user row.
func (u *AddressUsecase) lockOwner(ctx context.Context, userID uuid.UUID) error {
	if _, err := u.userRepo.GetByID(u.uow.WithLock(ctx), userID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrUserNotFound
		}
		return err
	}
	return nil
}
