package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Admin    AdminConfig
	Seller   SellerConfig
	Shop     ShopConfig
	Payment  PaymentConfig
	S3       S3Config
	SMTP     SMTPConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// AdminConfig holds back-office access configuration.
// OwnerEmails is the allow-list whose members carry the implicit owner
// permission. It is parsed once at startup and passed down explicitly;
// nothing reads the environment at request time.
type AdminConfig struct {
	OwnerEmails []string
}

// SellerConfig controls seller registration and login.
// LoginDomain is the domain of the synthesized login email
// (<username>@<LoginDomain>) that backs username-style login.
// DashboardURL and LoginURL point at the seller dashboard frontend;
// the /seller/dashboard entry route bounces browsers between them
// based on the approval cookie.
type SellerConfig struct {
	LoginDomain     string
	MaxDocumentSize int64
	RegisterTimeout time.Duration
	DashboardURL    string
	LoginURL        string
}

// ShopConfig holds storefront defaults.
type ShopConfig struct {
	Currency              string
	FreeDeliveryThreshold int // minimum total item quantity for free delivery
}

type PaymentConfig struct {
	Checkout CheckoutConfig
}

// CheckoutConfig configures the hosted checkout session provider.
type CheckoutConfig struct {
	SecretKey  string
	BaseURL    string
	SuccessURL string
	CancelURL  string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "almira"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			// storefront traffic is read-heavy and bursty; keep the
			// pool modest and recycle connections regularly
			MaxIdleConns:    parseInt(getEnv("DB_MAX_IDLE_CONNS", "5"), 5),
			MaxOpenConns:    parseInt(getEnv("DB_MAX_OPEN_CONNS", "25"), 25),
			ConnMaxLifetime: parseDuration(getEnv("DB_CONN_MAX_LIFETIME", "30m")),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m")),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h")),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Admin: AdminConfig{
			OwnerEmails: normalizeEmails(parseSlice(getEnv("ADMIN_OWNER_EMAILS", ""))),
		},
		Seller: SellerConfig{
			LoginDomain:     getEnv("SELLER_LOGIN_DOMAIN", "sellers.almira.shop"),
			MaxDocumentSize: int64(parseInt(getEnv("SELLER_MAX_DOCUMENT_SIZE", "5242880"), 5*1024*1024)),
			RegisterTimeout: parseDuration(getEnv("SELLER_REGISTER_TIMEOUT", "20s")),
			DashboardURL:    getEnv("SELLER_DASHBOARD_URL", "http://localhost:3000/seller/dashboard"),
			LoginURL:        getEnv("SELLER_LOGIN_URL", "http://localhost:3000/seller/login"),
		},
		Shop: ShopConfig{
			Currency:              getEnv("SHOP_CURRENCY", "AED"),
			FreeDeliveryThreshold: parseInt(getEnv("SHOP_FREE_DELIVERY_THRESHOLD", "3"), 3),
		},
		Payment: PaymentConfig{
			Checkout: CheckoutConfig{
				SecretKey:  getEnv("CHECKOUT_SECRET_KEY", ""),
				BaseURL:    getEnv("CHECKOUT_BASE_URL", "https://api.pay.almira.shop/v1"),
				SuccessURL: getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/checkout/success"),
				CancelURL:  getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/checkout/cancel"),
			},
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "me-central-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "almira-uploads"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@almira.shop"),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// IsOwner reports whether the email is on the admin owner allow-list.
// Comparison is case-insensitive.
func (c *AdminConfig) IsOwner(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, owner := range c.OwnerEmails {
		if owner == email {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default 15m", s)
		return 15 * time.Minute
	}
	return duration
}

func parseInt(s string, defaultValue int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, defaultValue)
		return defaultValue
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func normalizeEmails(emails []string) []string {
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			normalized = append(normalized, e)
		}
	}
	return normalized
}
