package storefront

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store, err := NewSessionStore(path)
	require.NoError(t, err)
	assert.False(t, store.IsAuthenticated())
	assert.False(t, store.IsAdmin())

	require.NoError(t, store.Set(Session{
		Token:        "access",
		RefreshToken: "refresh",
		User:         &User{Email: "admin@example.com", Role: RoleAdmin},
	}))
	assert.True(t, store.IsAuthenticated())
	assert.True(t, store.IsAdmin())

	reopened, err := NewSessionStore(path)
	require.NoError(t, err)
	assert.Equal(t, "access", reopened.Token())
	assert.Equal(t, "refresh", reopened.Get().RefreshToken)
	require.NotNil(t, reopened.Get().User)
	assert.Equal(t, "admin@example.com", reopened.Get().User.Email)
	assert.True(t, reopened.IsAdmin())

	require.NoError(t, reopened.Clear())
	assert.False(t, reopened.IsAuthenticated())
	assert.NoFileExists(t, path)
}

func TestSessionStore_CustomerIsNotAdmin(t *testing.T) {
	store, err := NewSessionStore("")
	require.NoError(t, err)

	require.NoError(t, store.Set(Session{Token: "t", User: &User{Role: "CUSTOMER"}}))
	assert.True(t, store.IsAuthenticated())
	assert.False(t, store.IsAdmin())
}
