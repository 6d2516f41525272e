package main

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"homeservice.backend/internal/config"
	"homeservice.backend/internal/testutil"
	plog "homeservice.backend/pkg/logger"
	"homeservice.backend/pkg/redis"
)

func withMainHooks(t *testing.T) {
	t.Helper()
	origLoadDotenv := loadDotenv
	origLoadCfg := loadCfg
	origInitLog := initLog
	origInitRedis := initRedis
	origOpenDB := openDB
	origNewSessionStore := newSessionStore
	origRunServer := runServer

	t.Cleanup(func() {
		loadDotenv = origLoadDotenv
		loadCfg = origLoadCfg
		initLog = origInitLog
		initRedis = origInitRedis
		openDB = origOpenDB
		newSessionStore = origNewSessionStore
		runServer = origRunServer
	})

	loadDotenv = func(...string) error { return nil }
	loadCfg = baseTestConfig
	initLog = plog.Init
	initRedis = func(string, string, time.Duration) error { return nil }
}

func baseTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "18080",
			Env:            "development",
			AllowedOrigins: []string{"*"},
		},
		Database: config.DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			DBName:   "homeservice",
			SSLMode:  "disable",
		},
		Redis: config.RedisConfig{
			URL: "redis://localhost:6379",
		},
		JWT: config.JWTConfig{
			Secret:        "secret",
			Issuer:        "homeservice-test",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{
			SessionEncryptionKey: "0000000000000000000000000000000000000000000000000000000000000000",
			IdempotencyTTL:       time.Hour,
		},
		SMS: config.SMSConfig{Provider: "log"},
		Verification: config.VerificationConfig{
			CodeTTL:        5 * time.Minute,
			ResendInterval: time.Minute,
		},
		Address: config.AddressConfig{MaxEntries: 5},
		Order: config.OrderConfig{
			PendingTimeout:   30 * time.Minute,
			ExpiryInterval:   time.Hour,
			ExpiryBatchSize:  10,
			ExpiryJobEnabled: true,
		},
		Payment: config.PaymentConfig{
			WechatFeeRate: decimal.RequireFromString("0.006"),
			AlipayFeeRate: decimal.RequireFromString("0.006"),
		},
		RateLimit: config.RateLimitConfig{SendCodePerMinute: 10, SendCodeBurst: 5},
	}
}

func TestRunMainProcess_RedisInitError(t *testing.T) {
	withMainHooks(t)
	initRedis = func(string, string, time.Duration) error { return errors.New("redis down") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected redis init error")
	}
}

func TestRunMainProcess_DBOpenError(t *testing.T) {
	withMainHooks(t)
	openDB = func(config.DatabaseConfig) (*gorm.DB, error) { return nil, errors.New("db open failed") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected db open error")
	}
}

func TestRunMainProcess_SessionStoreError(t *testing.T) {
	withMainHooks(t)
	db := testutil.NewSQLiteDB(t)
	openDB = func(config.DatabaseConfig) (*gorm.DB, error) { return db, nil }
	newSessionStore = func(string) (*redis.SessionStore, error) { return nil, errors.New("bad session key") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected session store error")
	}
}

func TestRunMainProcess_ServerRunError(t *testing.T) {
	withMainHooks(t)
	db := testutil.NewSQLiteDB(t)
	openDB = func(config.DatabaseConfig) (*gorm.DB, error) { return db, nil }
	runServer = func(*http.Server) error { return errors.New("listen failed") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected server run error")
	}
}

func TestRunMainProcess_SuccessPath(t *testing.T) {
	withMainHooks(t)
	db := testutil.NewSQLiteDB(t)
	openDB = func(config.DatabaseConfig) (*gorm.DB, error) { return db, nil }

	var got *http.Server
	runServer = func(srv *http.Server) error {
		got = srv
		return http.ErrServerClosed
	}

	if err := runMainProcess(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Addr != ":18080" || got.Handler == nil {
		t.Fatalf("unexpected server: %+v", got)
	}
}
