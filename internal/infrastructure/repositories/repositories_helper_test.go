package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"homeservice.backend/internal/domain/entities"
	"homeservice.backend/internal/infrastructure/models"
	"homeservice.backend/internal/testutil"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t)
}

func seedUser(t *testing.T, db *gorm.DB, phone string) *models.User {
	t.Helper()
	now := time.Now()
	u := &models.User{
		ID:           uuid.New(),
		Phone:        phone,
		Username:     "user_" + phone[len(phone)-4:],
		PasswordHash: "hash",
		Role:         string(entities.UserRoleCustomer),
		Status:       string(entities.UserStatusActive),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

type orderFixture struct {
	customer *models.User
	provider *models.ServiceProviderInfo
	service  *models.Service
	address  *models.AddressBook
}

func seedOrderFixture(t *testing.T, db *gorm.DB) orderFixture {
	t.Helper()
	customer := seedUser(t, db, "13800000001")
	providerUser := seedUser(t, db, "13900000002")

	provider := &models.ServiceProviderInfo{ID: uuid.New(), UserID: providerUser.ID, ServiceArea: "Haidian"}
	require.NoError(t, db.Create(provider).Error)

	category := &models.ServiceCategory{ID: uuid.New(), Name: "Cleaning"}
	require.NoError(t, db.Create(category).Error)

	service := &models.Service{
		ID:          uuid.New(),
		CategoryID:  &category.ID,
		ProviderID:  &provider.ID,
		Name:        "Deep clean",
		Price:       decimal.RequireFromString("120.00"),
		ServiceType: string(entities.ServiceTypeCleaning),
	}
	require.NoError(t, db.Create(service).Error)

	address := &models.AddressBook{ID: uuid.New(), UserID: customer.ID, Address: "1 Main St", IsDefault: true}
	require.NoError(t, db.Create(address).Error)

	return orderFixture{customer: customer, provider: provider, service: service, address: address}
}
