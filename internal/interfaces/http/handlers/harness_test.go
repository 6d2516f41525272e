package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"homeservice.backend/internal/domain/entities"
	"homeservice.backend/internal/infrastructure/models"
	"homeservice.backend/internal/infrastructure/repositories"
	"homeservice.backend/internal/interfaces/http/middleware"
	"homeservice.backend/internal/testutil"
	"homeservice.backend/internal/usecases"
	"homeservice.backend/pkg/crypto"
	"homeservice.backend/pkg/jwt"
	redispkg "homeservice.backend/pkg/redis"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type capturingSMS struct {
	mu    sync.Mutex
	codes map[string]string
}

func (s *capturingSMS) Send(_ context.Context, phone string, params map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = params["code"]
	return nil
}

func (s *capturingSMS) codeFor(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[entities.NormalizeE164(phone)]
}

type testServer struct {
	db       *gorm.DB
	router   *gin.Engine
	jwt      *jwt.JWTService
	sms      *capturingSMS
	sessions *redispkg.SessionStore
	redis    *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())

	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	t.Cleanup(srv.Close)
	cli := redisv9.NewClient(&redisv9.Options{Addr: srv.Addr()})
	redispkg.SetClient(cli)
	t.Cleanup(func() { _ = cli.Close() })

	sessions, err := redispkg.NewSessionStore("0000000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)

	db := testutil.NewSQLiteDB(t)
	now := func() time.Time { return fixedNow }
	uow := repositories.NewUnitOfWork(db)
	jwtSvc := jwt.NewJWTService("test-secret", "homeservice-test", 15*time.Minute, time.Hour)
	sms := &capturingSMS{codes: map[string]string{}}

	userRepo := repositories.NewUserRepository(db)
	addressRepo := repositories.NewAddressRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	codes := usecases.NewCodeUsecase(repositories.NewVerificationCodeRepository(db), uow, 5*time.Minute, time.Minute, now)
	auth := usecases.NewAuthUsecase(userRepo, repositories.NewUserInfoRepository(db), codes, uow, jwtSvc, sms, usecases.DefaultPlaceholderProfile, now)
	addresses := usecases.NewAddressUsecase(addressRepo, userRepo, uow, 5, now)
	orders := usecases.NewOrderUsecase(usecases.OrderRepos{
		Orders:     repositories.NewOrderRepository(db),
		Payments:   repositories.NewPaymentRepository(db),
		AfterSales: repositories.NewAfterSalesRepository(db),
		Reviews:    repositories.NewReviewRepository(db),
		Catalog:    catalogRepo,
		Addresses:  addressRepo,
	}, uow, usecases.FeeRates{
		entities.PaymentMethodWechat: decimal.RequireFromString("0.006"),
		entities.PaymentMethodAlipay: decimal.RequireFromString("0.006"),
	}, now)

	authHandler := NewAuthHandler(auth, sessions, time.Hour, false)
	catalogHandler := NewCatalogHandler(usecases.NewCatalogUsecase(catalogRepo))
	addressHandler := NewAddressHandler(addresses)
	orderHandler := NewOrderHandler(orders)
	adminHandler := NewAdminHandler(orders, auth)
	authMW := middleware.AuthMiddleware(jwtSvc, sessions)

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.POST("/auth/send-code", authHandler.SendCode)
	v1.GET("/auth/check-phone", authHandler.CheckPhone)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/password-reset", authHandler.ResetPassword)
	v1.POST("/auth/refresh", authHandler.RefreshToken)
	v1.POST("/auth/logout", authMW, authHandler.Logout)
	v1.GET("/auth/me", authMW, authHandler.GetMe)

	v1.GET("/catalog/categories", catalogHandler.ListCategories)
	v1.GET("/catalog/services", catalogHandler.ListServices)
	v1.GET("/catalog/services/:id", catalogHandler.GetService)

	v1.GET("/addresses", authMW, addressHandler.ListAddresses)
	v1.POST("/addresses", authMW, addressHandler.AddAddress)
	v1.PUT("/addresses/:id/default", authMW, addressHandler.SetDefault)
	v1.DELETE("/addresses/:id", authMW, addressHandler.RemoveAddress)

	v1.POST("/orders", authMW, orderHandler.CreateOrder)
	v1.GET("/orders", authMW, orderHandler.ListOrders)
	v1.GET("/orders/:id", authMW, orderHandler.GetOrder)
	v1.POST("/orders/:id/payments", authMW, orderHandler.ConfirmPayment)
	v1.GET("/orders/:id/payments", authMW, orderHandler.ListPayments)
	v1.POST("/orders/:id/complete", authMW, orderHandler.Complete)
	v1.POST("/orders/:id/cancel", authMW, orderHandler.Cancel)
	v1.POST("/orders/:id/after-sales", authMW, orderHandler.OpenAfterSales)
	v1.POST("/orders/:id/reviews", authMW, orderHandler.SubmitReview)

	admin := v1.Group("/admin", authMW, middleware.RequireAdmin())
	admin.PUT("/after-sales/:id", adminHandler.ResolveAfterSales)
	admin.PUT("/reviews/:id", adminHandler.ModerateReview)
	admin.PUT("/users/:id/status", adminHandler.SetUserStatus)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)

	return &testServer{db: db, router: r, jwt: jwtSvc, sms: sms, sessions: sessions, redis: srv}
}

type requestOpt func(*http.Request)

func bearer(token string) requestOpt {
	return func(r *http.Request) { r.Header.Set(middleware.AuthorizationHeader, middleware.BearerPrefix+token) }
}

func session(id string) requestOpt {
	return func(r *http.Request) { r.Header.Set(middleware.SessionIDHeader, id) }
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, opts ...requestOpt) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// seedUser inserts an active account with password "secret123" and returns an access token for it.
func (s *testServer) seedUser(t *testing.T, phone string, role entities.UserRole) (uuid.UUID, string) {
	t.Helper()
	hash, err := crypto.HashPassword("secret123")
	require.NoError(t, err)
	u := &models.User{
		ID:           uuid.New(),
		Phone:        phone,
		Username:     "user_" + phone[len(phone)-4:],
		PasswordHash: hash,
		Role:         string(role),
		Status:       string(entities.UserStatusActive),
		CreatedAt:    fixedNow,
		UpdatedAt:    fixedNow,
	}
	require.NoError(t, s.db.Create(u).Error)

	pair, err := s.jwt.GenerateTokenPair(u.ID, phone, string(role))
	require.NoError(t, err)
	return u.ID, pair.AccessToken
}

type catalogFixture struct {
	providerID    uuid.UUID
	providerToken string
	serviceID     uuid.UUID
	categoryID    uuid.UUID
}

func (s *testServer) seedCatalog(t *testing.T) catalogFixture {
	t.Helper()
	providerUserID, providerToken := s.seedUser(t, "13900000002", entities.UserRoleProvider)
	provider := &models.ServiceProviderInfo{ID: uuid.New(), UserID: providerUserID, ServiceArea: "Chaoyang"}
	require.NoError(t, s.db.Create(provider).Error)
	category := &models.ServiceCategory{ID: uuid.New(), Name: "Cleaning"}
	require.NoError(t, s.db.Create(category).Error)
	service := &models.Service{
		ID:          uuid.New(),
		CategoryID:  &category.ID,
		ProviderID:  &provider.ID,
		Name:        "Deep clean",
		Price:       decimal.RequireFromString("120.00"),
		ServiceType: string(entities.ServiceTypeCleaning),
	}
	require.NoError(t, s.db.Create(service).Error)
	return catalogFixture{
		providerID:    provider.ID,
		providerToken: providerToken,
		serviceID:     service.ID,
		categoryID:    category.ID,
	}
}
