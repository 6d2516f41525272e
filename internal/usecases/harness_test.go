package usecases_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"homeservice.backend/internal/domain/entities"
	"homeservice.backend/internal/infrastructure/models"
	"homeservice.backend/internal/infrastructure/repositories"
	"homeservice.backend/internal/testutil"
	"homeservice.backend/internal/usecases"
	"homeservice.backend/pkg/jwt"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentSMS struct {
	phone  string
	params map[string]string
}

type fakeSMS struct {
	mu   sync.Mutex
	err  error
	sent []sentSMS
}

func (f *fakeSMS) Send(_ context.Context, phone string, params map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{phone: phone, params: params})
	return nil
}

func (f *fakeSMS) lastCode(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent, "no sms sent")
	return f.sent[len(f.sent)-1].params["code"]
}

type harness struct {
	db        *gorm.DB
	clock     *fakeClock
	sms       *fakeSMS
	jwt       *jwt.JWTService
	codes     *usecases.CodeUsecase
	auth      *usecases.AuthUsecase
	addresses *usecases.AddressUsecase
	orders    *usecases.OrderUsecase
}

func fixedProfile(int64) (string, string) {
	return "快乐的可乐", "avatars/avatar1.jpg"
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	clock := newFakeClock()
	sms := &fakeSMS{}
	uow := repositories.NewUnitOfWork(db)
	jwtSvc := jwt.NewJWTService("test-secret", "homeservice-test", 15*time.Minute, 24*time.Hour)

	userRepo := repositories.NewUserRepository(db)
	codes := usecases.NewCodeUsecase(repositories.NewVerificationCodeRepository(db), uow, 5*time.Minute, 60*time.Second, clock.Now)
	auth := usecases.NewAuthUsecase(userRepo, repositories.NewUserInfoRepository(db), codes, uow, jwtSvc, sms, fixedProfile, clock.Now)
	addressRepo := repositories.NewAddressRepository(db)
	addresses := usecases.NewAddressUsecase(addressRepo, userRepo, uow, 5, clock.Now)
	orders := usecases.NewOrderUsecase(usecases.OrderRepos{
		Orders:     repositories.NewOrderRepository(db),
		Payments:   repositories.NewPaymentRepository(db),
		AfterSales: repositories.NewAfterSalesRepository(db),
		Reviews:    repositories.NewReviewRepository(db),
		Catalog:    repositories.NewCatalogRepository(db),
		Addresses:  addressRepo,
	}, uow, usecases.FeeRates{
		entities.PaymentMethodWechat: decimal.RequireFromString("0.006"),
		entities.PaymentMethodAlipay: decimal.RequireFromString("0.01"),
	}, clock.Now)

	return &harness{
		db:        db,
		clock:     clock,
		sms:       sms,
		jwt:       jwtSvc,
		codes:     codes,
		auth:      auth,
		addresses: addresses,
		orders:    orders,
	}
}

func (h *harness) seedUser(t *testing.T, phone string, role entities.UserRole) *models.User {
	t.Helper()
	now := h.clock.Now()
	u := &models.User{
		ID:           uuid.New(),
		Phone:        phone,
		Username:     "user_" + phone[len(phone)-4:],
		PasswordHash: "unusable",
		Role:         string(role),
		Status:       string(entities.UserStatusActive),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, h.db.Create(u).Error)
	return u
}

type bookingFixture struct {
	customer     usecases.Actor
	providerUser usecases.Actor
	providerID   uuid.UUID
	serviceID    uuid.UUID
	addressID    uuid.UUID
}

// seedBooking creates a customer with a default address and a provider offering one service.
func (h *harness) seedBooking(t *testing.T) bookingFixture {
	t.Helper()
	customer := h.seedUser(t, "13800000001", entities.UserRoleCustomer)
	providerUser := h.seedUser(t, "13900000002", entities.UserRoleProvider)

	provider := &models.ServiceProviderInfo{ID: uuid.New(), UserID: providerUser.ID, ServiceArea: "Chaoyang"}
	require.NoError(t, h.db.Create(provider).Error)
	category := &models.ServiceCategory{ID: uuid.New(), Name: "Cleaning"}
	require.NoError(t, h.db.Create(category).Error)
	service := &models.Service{
		ID:          uuid.New(),
		CategoryID:  &category.ID,
		ProviderID:  &provider.ID,
		Name:        "Deep clean",
		Price:       decimal.RequireFromString("120.00"),
		ServiceType: string(entities.ServiceTypeCleaning),
	}
	require.NoError(t, h.db.Create(service).Error)

	address, err := h.addresses.AddAddress(context.Background(), customer.ID, "1 Main St", true)
	require.NoError(t, err)

	return bookingFixture{
		customer:     usecases.Actor{UserID: customer.ID, Role: entities.UserRoleCustomer},
		providerUser: usecases.Actor{UserID: providerUser.ID, Role: entities.UserRoleProvider},
		providerID:   provider.ID,
		serviceID:    service.ID,
		addressID:    address.ID,
	}
}

func (h *harness) createOrder(t *testing.T, f bookingFixture) *entities.Order {
	t.Helper()
	order, err := h.orders.CreateOrder(context.Background(), f.customer.UserID, &entities.CreateOrderInput{
		ProviderID: f.providerID,
		ServiceID:  f.serviceID,
	})
	require.NoError(t, err)
	return order
}

func (h *harness) orderStatus(t *testing.T, id uuid.UUID) entities.OrderStatus {
	t.Helper()
	var m models.Order
	require.NoError(t, h.db.First(&m, "id = ?", id).Error)
	return entities.OrderStatus(m.Status)
}

func (h *harness) updatedAt(t *testing.T, id uuid.UUID) time.Time {
	t.Helper()
	var m models.Order
	require.NoError(t, h.db.First(&m, "id = ?", id).Error)
	return m.UpdatedAt
}
