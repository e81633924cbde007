// internal/config/config.go
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Redis       RedisConfig
	AWS         AWSConfig
	Storage     StorageConfig
	Payment     PaymentConfig
	Email       EmailConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
	Admin       AdminSeedConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
}

type FrontendConfig struct {
	BaseURL string `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:3000"`
}

type ServerConfig struct {
	Port         string `env:"SERVER_PORT" envDefault:"8080"`
	Host         string `env:"SERVER_HOST" envDefault:"localhost"`
	PublicURL    string `env:"SERVER_PUBLIC_URL" envDefault:"http://localhost:8080"`
	ReadTimeout  int    `env:"SERVER_READ_TIMEOUT" envDefault:"15"`
	WriteTimeout int    `env:"SERVER_WRITE_TIMEOUT" envDefault:"15"`
	IdleTimeout  int    `env:"SERVER_IDLE_TIMEOUT" envDefault:"60"`
}

type DatabaseConfig struct {
	Driver       string `env:"DB_DRIVER" envDefault:"postgres"`
	URL          string `env:"DATABASE_URL"`
	Host         string `env:"DB_HOST" envDefault:"localhost"`
	Port         string `env:"DB_PORT" envDefault:"5432"`
	User         string `env:"DB_USER" envDefault:"postgres"`
	Password     string `env:"DB_PASSWORD"`
	Database     string `env:"DB_NAME" envDefault:"shop"`
	SSLMode      string `env:"DB_SSL_MODE" envDefault:"disable"`
	SQLitePath   string `env:"DB_SQLITE_PATH" envDefault:"shop.db"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
	MaxLifetime  int    `env:"DB_MAX_LIFETIME" envDefault:"300"`
	LogLevel     string `env:"DB_LOG_LEVEL" envDefault:"silent"`
}

type JWTConfig struct {
	SecretKey       string `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	AccessTokenTTL  int    `env:"JWT_ACCESS_TTL" envDefault:"24"`   // in hours
	RefreshTokenTTL int    `env:"JWT_REFRESH_TTL" envDefault:"168"` // in hours
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	CacheTTL int    `env:"REDIS_CACHE_TTL" envDefault:"60"` // in seconds
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type AWSConfig struct {
	Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Bucket        string `env:"AWS_S3_BUCKET" envDefault:"shop-product-images"`
	CloudFrontURL   string `env:"AWS_CLOUDFRONT_URL"`
}

type StorageConfig struct {
	LocalDir    string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	MaxFileSize int64  `env:"UPLOAD_MAX_SIZE" envDefault:"5242880"`
}

type PaymentConfig struct {
	StripeSecretKey      string `env:"STRIPE_SECRET_KEY"`
	StripePublishableKey string `env:"STRIPE_PUBLISHABLE_KEY"`
	Currency             string `env:"PAYMENT_CURRENCY" envDefault:"usd"`
}

type EmailConfig struct {
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	FromEmail    string `env:"FROM_EMAIL" envDefault:"noreply@shop.local"`
	FromName     string `env:"FROM_NAME" envDefault:"Shop"`
}

type I18nConfig struct {
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en"`
}

type AdminSeedConfig struct {
	Email    string `env:"ADMIN_EMAIL" envDefault:"admin@shop.local"`
	Password string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	FullName string `env:"ADMIN_FULL_NAME" envDefault:"Store Administrator"`
}

type RateLimitConfig struct {
	Enabled        bool    `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RequestsPerSec float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	Burst          int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
	AuthPerMinute  int     `env:"RATE_LIMIT_AUTH_PER_MINUTE" envDefault:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return config, config.Validate()
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == defaultJWTSecret && c.IsProduction() {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Database.Driver == "postgres" && c.Database.Password == "" && c.Database.URL == "" && c.IsProduction() {
		return fmt.Errorf("database password is required in production")
	}

	if c.JWT.AccessTokenTTL <= 0 || c.JWT.RefreshTokenTTL <= 0 {
		return fmt.Errorf("JWT token lifetimes must be positive")
	}

	return nil
}
