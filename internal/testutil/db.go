// internal/testutil/db.go
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/shop-backend/internal/config"
	"github.com/javajoker/shop-backend/internal/database"
	"github.com/javajoker/shop-backend/internal/models"
)

// NewTestDB opens a private in-memory SQLite database with the full schema migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Initialize(config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, database.RunMigrations(db))
	return db
}

// NewTestConfig returns a configuration suitable for running services against NewTestDB.
func NewTestConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Database:    config.DatabaseConfig{Driver: "sqlite"},
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Frontend: config.FrontendConfig{BaseURL: "http://shop.test"},
		Server:   config.ServerConfig{PublicURL: "http://api.shop.test"},
		Payment:  config.PaymentConfig{Currency: "usd"},
		Email:    config.EmailConfig{FromEmail: "noreply@shop.test", FromName: "Shop"},
		Admin:    config.AdminSeedConfig{Email: "admin@shop.test", Password: "admin123", FullName: "Admin"},
	}
}

func CreateUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{Email: email, FullName: "Test " + string(role), Role: role}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(category).Error)
	return category
}

func CreateBrand(t *testing.T, db *gorm.DB, name, slug string) *models.Brand {
	t.Helper()

	brand := &models.Brand{Name: name, Slug: slug}
	require.NoError(t, db.Create(brand).Error)
	return brand
}

// ProductOption mutates a product before CreateProduct persists it.
type ProductOption func(*models.Product)

func WithCategory(id uint) ProductOption {
	return func(p *models.Product) { p.CategoryID = &id }
}

func WithBrand(id uint) ProductOption {
	return func(p *models.Product) { p.BrandID = &id }
}

func OutOfStock() ProductOption {
	return func(p *models.Product) { p.InStock = false }
}

func Featured() ProductOption {
	return func(p *models.Product) { p.Featured = true }
}

func WithRating(rating string) ProductOption {
	return func(p *models.Product) { p.Rating = decimal.RequireFromString(rating) }
}

func CreateProduct(t *testing.T, db *gorm.DB, name, price string, opts ...ProductOption) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		InStock:     true,
	}
	for _, opt := range opts {
		opt(product)
	}

	require.NoError(t, db.Create(product).Error)
	return product
}
