package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := CreateToken(secret, "8b9f07b7-6e65-4100-9df1-9f0c62fa306d", "member", time.Hour)
	require.NoError(t, err)

	claims, err := ParseValidate(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "8b9f07b7-6e65-4100-9df1-9f0c62fa306d", claims.Sub)
	assert.Equal(t, "member", claims.Role)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := CreateToken([]byte("secret-a"), "user", "member", time.Hour)
	require.NoError(t, err)

	_, err = ParseValidate([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := CreateToken(secret, "user", "member", -time.Minute)
	require.NoError(t, err)

	_, err = ParseValidate(secret, token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	_, err := ParseValidate([]byte("test-secret"), "not.a.token")
	assert.Error(t, err)
}
