package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Minute)

	token, err := manager.GenerateAccessToken("user-1", "alice@campus.edu", "faculty")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ParseAndValidate(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@campus.edu", claims.Email)
	assert.Equal(t, "faculty", claims.Role)
}

func TestJWTWrongSecret(t *testing.T) {
	manager := NewJWTManager("secret-a", time.Minute)
	other := NewJWTManager("secret-b", time.Minute)

	token, err := manager.GenerateAccessToken("user-1", "alice@campus.edu", "student")
	require.NoError(t, err)

	_, err = other.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.GenerateAccessToken("user-1", "alice@campus.edu", "student")
	require.NoError(t, err)

	_, err = manager.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestJWTGarbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Minute)

	_, err := manager.ParseAndValidate("not-a-token")
	assert.Error(t, err)
}
