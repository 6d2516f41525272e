package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/internal/infrastructure/models"
)

func newUserEntity(phone string) *entities.User {
	now := time.Now()
	return &entities.User{
		ID:           uuid.New(),
		Phone:        phone,
		Username:     "user_" + phone[len(phone)-4:],
		PasswordHash: "hash",
		Role:         entities.UserRoleCustomer,
		Status:       entities.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newUserEntity("13800000000")
	require.NoError(t, repo.Create(ctx, u))

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Phone, byID.Phone)
	require.Equal(t, entities.UserRoleCustomer, byID.Role)

	byPhone, err := repo.GetByPhone(ctx, u.Phone)
	require.NoError(t, err)
	require.Equal(t, u.ID, byPhone.ID)

	exists, err := repo.ExistsByPhone(ctx, u.Phone)
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "hash2", time.Now()))
	require.NoError(t, repo.UpdateStatus(ctx, u.ID, entities.UserStatusFrozen, time.Now()))

	byID, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "hash2", byID.PasswordHash)
	require.Equal(t, entities.UserStatusFrozen, byID.Status)

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepository_DuplicatePhone(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUserEntity("13800000000")))
	err := repo.Create(ctx, newUserEntity("13800000000"))
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestUserRepository_NotFoundBranches(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	id := uuid.New()

	_, err := repo.GetByID(ctx, id)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByPhone(ctx, "13800000000")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	exists, err := repo.ExistsByPhone(ctx, "13800000000")
	require.NoError(t, err)
	require.False(t, exists)

	require.ErrorIs(t, repo.UpdatePassword(ctx, id, "hash", time.Now()), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.UpdateStatus(ctx, id, entities.UserStatusClosed, time.Now()), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, id), domainerrors.ErrNotFound)
}

func TestUserRepository_DeleteCascadesProfileButNotOrders(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	infos := NewUserInfoRepository(db)
	ctx := context.Background()

	u := newUserEntity("13800000000")
	require.NoError(t, users.Create(ctx, u))
	require.NoError(t, infos.Create(ctx, &entities.UserInfo{ID: uuid.New(), UserID: u.ID, Nickname: "n", Gender: entities.GenderUnknown}))
	require.NoError(t, db.Create(&models.AddressBook{ID: uuid.New(), UserID: u.ID, Address: "a"}).Error)

	require.NoError(t, users.Delete(ctx, u.ID))
	_, err := infos.GetByUserID(ctx, u.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	var addrCount int64
	require.NoError(t, db.Unscoped().Model(&models.AddressBook{}).Where("user_id = ?", u.ID).Count(&addrCount).Error)
	require.Zero(t, addrCount)

	fx := seedOrderFixture(t, db)
	require.NoError(t, db.Create(&models.Order{
		ID:         uuid.New(),
		CustomerID: fx.customer.ID,
		ProviderID: fx.provider.ID,
		ServiceID:  fx.service.ID,
		AddressID:  fx.address.ID,
		Status:     string(entities.OrderStatusPendingPayment),
	}).Error)

	err = users.Delete(ctx, fx.customer.ID)
	require.ErrorIs(t, err, domainerrors.ErrUserHasOrders)
	_, err = users.GetByID(ctx, fx.customer.ID)
	require.NoError(t, err)

	// the provider side of the order blocks too, inside a transaction
	err = NewUnitOfWork(db).Do(ctx, func(txCtx context.Context) error {
		return users.Delete(txCtx, fx.provider.UserID)
	})
	require.ErrorIs(t, err, domainerrors.ErrUserHasOrders)
	_, err = users.GetByID(ctx, fx.provider.UserID)
	require.NoError(t, err)
}

func TestUserInfoRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewUserInfoRepository(db)
	ctx := context.Background()

	u := newUserEntity("13800000000")
	require.NoError(t, users.Create(ctx, u))

	birthday := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	info := &entities.UserInfo{
		ID:       uuid.New(),
		UserID:   u.ID,
		Nickname: "快乐的可乐",
		Gender:   entities.GenderFemale,
		Birthday: null.TimeFrom(birthday),
		Avatar:   "avatars/avatar1.jpg",
	}
	require.NoError(t, repo.Create(ctx, info))
	require.ErrorIs(t, repo.Create(ctx, &entities.UserInfo{ID: uuid.New(), UserID: u.ID, Nickname: "x"}), domainerrors.ErrAlreadyExists)

	got, err := repo.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, info.Nickname, got.Nickname)
	require.Equal(t, entities.GenderFemale, got.Gender)
	require.True(t, got.Birthday.Valid)
	require.True(t, birthday.Equal(got.Birthday.Time))
}
