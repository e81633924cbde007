// internal/services/auth_service_test.go
package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/shop-backend/internal/models"
	"github.com/javajoker/shop-backend/internal/testutil"
	"github.com/javajoker/shop-backend/internal/utils"
)

var resetTokenInEmail = regexp.MustCompile(`token=([A-Za-z0-9]{32})`)

type authFixture struct {
	db      *gorm.DB
	mailer  *RecordingMailer
	store   *GormResetTokenStore
	service *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cfg := testutil.NewTestConfig()
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	db := testutil.NewTestDB(t)
	mailer := &RecordingMailer{}
	store := NewGormResetTokenStore(db)

	return &authFixture{
		db:      db,
		mailer:  mailer,
		store:   store,
		service: NewAuthService(db, cfg, store, NewNotificationServiceWithMailer(cfg, mailer)),
	}
}

func (f *authFixture) register(t *testing.T, email string) *AuthResponse {
	t.Helper()
	resp, err := f.service.Register(&RegisterRequest{
		Email:    email,
		Password: "password123",
		FullName: "Jane Doe",
	})
	require.NoError(t, err)
	return resp
}

func (f *authFixture) requestReset(t *testing.T, email string) string {
	t.Helper()
	require.NoError(t, f.service.ForgotPassword(context.Background(), &ForgotPasswordRequest{Email: email}))

	sent := f.mailer.Sent()
	require.NotEmpty(t, sent)
	match := resetTokenInEmail.FindStringSubmatch(sent[len(sent)-1].Body)
	require.Len(t, match, 2)
	return match[1]
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)

	resp := f.register(t, "  Jane@Example.COM ")
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.Equal(t, models.RoleCustomer, resp.User.Role)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, string(models.RoleCustomer), claims.Role)

	var stored models.User
	require.NoError(t, f.db.First(&stored, resp.User.ID).Error)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, stored.CheckPassword("password123"))

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "jane@example.com", sent[0].To)
	assert.Equal(t, "Welcome", sent[0].Subject)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jane@example.com")

	_, err := f.service.Register(&RegisterRequest{
		Email:    "JANE@example.com",
		Password: "another-password",
		FullName: "Someone Else",
	})
	require.Error(t, err)
	assert.True(t, utils.IsConflict(err))

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_Validation(t *testing.T) {
	f := newAuthFixture(t)

	for name, req := range map[string]*RegisterRequest{
		"bad email":      {Email: "nope", Password: "password123", FullName: "A"},
		"short password": {Email: "a@example.com", Password: "123", FullName: "A"},
		"missing name":   {Email: "a@example.com", Password: "password123"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.Register(req)
			assert.True(t, utils.IsInvalidState(err))
		})
	}
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	registered := f.register(t, "jane@example.com")

	resp, err := f.service.Login(&LoginRequest{Email: "JANE@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)
	require.NotNil(t, resp.User.LastLoginAt)

	_, err = f.service.Login(&LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
	assert.True(t, utils.IsUnauthorized(err))

	_, err = f.service.Login(&LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.True(t, utils.IsUnauthorized(err))
}

func TestRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	registered := f.register(t, "jane@example.com")

	resp, err := f.service.RefreshToken(registered.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)

	// an access token is not a refresh token
	_, err = f.service.RefreshToken(registered.AccessToken)
	assert.True(t, utils.IsUnauthorized(err))

	_, err = f.service.RefreshToken("garbage")
	assert.True(t, utils.IsUnauthorized(err))
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "jane@example.com").User

	err := f.service.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "not-my-password",
		NewPassword:     "new-password",
	})
	assert.True(t, utils.IsUnauthorized(err))

	require.NoError(t, f.service.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "new-password",
	}))

	_, err = f.service.Login(&LoginRequest{Email: "jane@example.com", Password: "password123"})
	assert.True(t, utils.IsUnauthorized(err))
	_, err = f.service.Login(&LoginRequest{Email: "jane@example.com", Password: "new-password"})
	assert.NoError(t, err)
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.service.ForgotPassword(context.Background(), &ForgotPasswordRequest{Email: "ghost@example.com"}))
	assert.Empty(t, f.mailer.Sent())

	var count int64
	require.NoError(t, f.db.Model(&models.PasswordResetToken{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jane@example.com")
	ctx := context.Background()

	token := f.requestReset(t, "jane@example.com")

	var stored models.PasswordResetToken
	require.NoError(t, f.db.First(&stored).Error)
	assert.Equal(t, utils.HashString(token), stored.TokenHash)

	require.NoError(t, f.service.ResetPassword(ctx, &ResetPasswordRequest{Token: token, NewPassword: "reset-password"}))

	_, err := f.service.Login(&LoginRequest{Email: "jane@example.com", Password: "reset-password"})
	assert.NoError(t, err)

	// tokens are single use
	err = f.service.ResetPassword(ctx, &ResetPasswordRequest{Token: token, NewPassword: "again-password"})
	assert.True(t, utils.IsInvalidState(err))
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "jane@example.com")

	token := f.requestReset(t, "jane@example.com")
	f.store.now = func() time.Time { return time.Now().Add(PasswordResetTTL + time.Minute) }

	err := f.service.ResetPassword(context.Background(), &ResetPasswordRequest{Token: token, NewPassword: "reset-password"})
	assert.True(t, utils.IsInvalidState(err))

	_, err = f.service.Login(&LoginRequest{Email: "jane@example.com", Password: "password123"})
	assert.NoError(t, err)
}

func TestResetPassword_UnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	err := f.service.ResetPassword(context.Background(), &ResetPasswordRequest{Token: "does-not-exist", NewPassword: "reset-password"})
	assert.True(t, utils.IsInvalidState(err))
}
