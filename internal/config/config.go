package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration values
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Security     SecurityConfig
	SMS          SMSConfig
	Verification VerificationConfig
	Address      AddressConfig
	Order        OrderConfig
	Payment      PaymentConfig
	RateLimit    RateLimitConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL         string
	Password    string
	DialTimeout time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	Issuer        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	SessionEncryptionKey string
	IdempotencyTTL       time.Duration
}

// SMSConfig configures the outbound SMS gateway
type SMSConfig struct {
	// Provider is "aliyun" or "log"
	Provider        string
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	SignName        string
	TemplateCode    string
	RegionID        string
	Timeout         time.Duration
}

// VerificationConfig holds one-time code timing
type VerificationConfig struct {
	CodeTTL        time.Duration
	ResendInterval time.Duration
}

// AddressConfig holds address book limits
type AddressConfig struct {
	MaxEntries int
}

// OrderConfig holds order lifecycle settings
type OrderConfig struct {
	PendingTimeout   time.Duration
	ExpiryInterval   time.Duration
	ExpiryBatchSize  int
	ExpiryJobEnabled bool
}

// PaymentConfig holds per-channel fee rates
type PaymentConfig struct {
	WechatFeeRate decimal.Decimal
	AlipayFeeRate decimal.Decimal
}

// RateLimitConfig holds the per-IP token bucket for code requests
type RateLimitConfig struct {
	SendCodePerMinute int
	SendCodeBurst     int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "homeservice"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:         getEnv("REDIS_URL", "redis://localhost:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DialTimeout: getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			Issuer:        getEnv("JWT_ISSUER", "homeservice"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
			IdempotencyTTL:       getEnvAsDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		SMS: SMSConfig{
			Provider:        getEnv("SMS_PROVIDER", "log"),
			Endpoint:        getEnv("SMS_ENDPOINT", "https://dysmsapi.aliyuncs.com/"),
			AccessKeyID:     getEnv("SMS_ACCESS_KEY_ID", ""),
			AccessKeySecret: getEnv("SMS_ACCESS_KEY_SECRET", ""),
			SignName:        getEnv("SMS_SIGN_NAME", ""),
			TemplateCode:    getEnv("SMS_TEMPLATE_CODE", ""),
			RegionID:        getEnv("SMS_REGION_ID", "cn-hangzhou"),
			Timeout:         getEnvAsDuration("SMS_TIMEOUT", 5*time.Second),
		},
		Verification: VerificationConfig{
			CodeTTL:        getEnvAsDuration("VERIFICATION_CODE_TTL", 5*time.Minute),
			ResendInterval: getEnvAsDuration("VERIFICATION_RESEND_INTERVAL", 60*time.Second),
		},
		Address: AddressConfig{
			MaxEntries: getEnvAsInt("ADDRESS_MAX_ENTRIES", 5),
		},
		Order: OrderConfig{
			PendingTimeout:   getEnvAsDuration("ORDER_PENDING_TIMEOUT", 30*time.Minute),
			ExpiryInterval:   getEnvAsDuration("ORDER_EXPIRY_INTERVAL", time.Minute),
			ExpiryBatchSize:  getEnvAsInt("ORDER_EXPIRY_BATCH_SIZE", 100),
			ExpiryJobEnabled: getEnvAsBool("ORDER_EXPIRY_JOB_ENABLED", true),
		},
		Payment: PaymentConfig{
			WechatFeeRate: getEnvAsDecimal("PAYMENT_WECHAT_FEE_RATE", decimal.RequireFromString("0.006")),
			AlipayFeeRate: getEnvAsDecimal("PAYMENT_ALIPAY_FEE_RATE", decimal.RequireFromString("0.006")),
		},
		RateLimit: RateLimitConfig{
			SendCodePerMinute: getEnvAsInt("RATE_LIMIT_SEND_CODE_PER_MINUTE", 10),
			SendCodeBurst:     getEnvAsInt("RATE_LIMIT_SEND_CODE_BURST", 5),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil && !d.IsNegative() {
			return d
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
