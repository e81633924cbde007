// internal/services/reset_token_store.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/javajoker/shop-backend/internal/models"
	"github.com/javajoker/shop-backend/internal/utils"
)

const PasswordResetTTL = time.Hour

var errResetTokenInvalid = utils.InvalidState("invalid or expired reset token")

// ResetTokenStore keeps hashed password-reset tokens until they are used or expire.
type ResetTokenStore interface {
	Save(ctx context.Context, tokenHash string, userID uint, ttl time.Duration) error
	// Consume returns the owning user id and invalidates the token.
	Consume(ctx context.Context, tokenHash string) (uint, error)
}

type GormResetTokenStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormResetTokenStore(db *gorm.DB) *GormResetTokenStore {
	return &GormResetTokenStore{db: db, now: time.Now}
}

func (s *GormResetTokenStore) Save(ctx context.Context, tokenHash string, userID uint, ttl time.Duration) error {
	token := &models.PasswordResetToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}
	return nil
}

func (s *GormResetTokenStore) Consume(ctx context.Context, tokenHash string) (uint, error) {
	var token models.PasswordResetToken
	if err := s.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errResetTokenInvalid
		}
		return 0, fmt.Errorf("database error: %w", err)
	}

	now := s.now()
	if token.UsedAt != nil || now.After(token.ExpiresAt) {
		return 0, errResetTokenInvalid
	}

	// Conditional update so a token cannot be spent twice
	result := s.db.WithContext(ctx).Model(&models.PasswordResetToken{}).
		Where("id = ? AND used_at IS NULL", token.ID).
		Update("used_at", now)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to consume reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, errResetTokenInvalid
	}

	return token.UserID, nil
}

type RedisResetTokenStore struct {
	client *redis.Client
	prefix string
}

func NewRedisResetTokenStore(client *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client, prefix: "password_reset:"}
}

func (s *RedisResetTokenStore) Save(ctx context.Context, tokenHash string, userID uint, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+tokenHash, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}
	return nil
}

func (s *RedisResetTokenStore) Consume(ctx context.Context, tokenHash string) (uint, error) {
	value, err := s.client.GetDel(ctx, s.prefix+tokenHash).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, errResetTokenInvalid
		}
		return 0, fmt.Errorf("failed to read reset token: %w", err)
	}

	userID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errResetTokenInvalid
	}
	return uint(userID), nil
}
