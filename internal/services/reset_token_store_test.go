// internal/services/reset_token_store_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/shop-backend/internal/models"
	"github.com/javajoker/shop-backend/internal/testutil"
)

func TestGormResetTokenStore(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "jane@example.com", models.RoleCustomer)
	store := NewGormResetTokenStore(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "hash-1", user.ID, time.Hour))

	userID, err := store.Consume(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = store.Consume(ctx, "hash-1")
	assert.ErrorIs(t, err, errResetTokenInvalid)

	_, err = store.Consume(ctx, "unknown")
	assert.ErrorIs(t, err, errResetTokenInvalid)

	require.NoError(t, store.Save(ctx, "hash-2", user.ID, time.Minute))
	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = store.Consume(ctx, "hash-2")
	assert.ErrorIs(t, err, errResetTokenInvalid)
}

func TestRedisResetTokenStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisResetTokenStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "hash-1", 42, time.Hour))
	assert.True(t, mr.Exists("password_reset:hash-1"))
	assert.Equal(t, time.Hour, mr.TTL("password_reset:hash-1"))

	userID, err := store.Consume(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.False(t, mr.Exists("password_reset:hash-1"))

	_, err = store.Consume(ctx, "hash-1")
	assert.ErrorIs(t, err, errResetTokenInvalid)

	require.NoError(t, store.Save(ctx, "hash-2", 7, time.Minute))
	mr.FastForward(2 * time.Minute)
	_, err = store.Consume(ctx, "hash-2")
	assert.ErrorIs(t, err, errResetTokenInvalid)
}
