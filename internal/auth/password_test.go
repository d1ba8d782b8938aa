package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword(testPassword, 4)
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(testPassword, hash))
	assert.ErrorIs(t, CheckPassword("something-else-entirely", hash), ErrInvalidPassword)

	_, err = HashPassword("short", 4)
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = HashPassword(strings.Repeat("x", 73), 4)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestGenerateSessionSecret(t *testing.T) {
	a, err := GenerateSessionSecret()
	require.NoError(t, err)
	b, err := GenerateSessionSecret()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Len(t, SecretKey(a), 32)
}

func TestSecretKey(t *testing.T) {
	assert.Len(t, SecretKey("short"), 32)
	assert.Equal(t, SecretKey("short"), SecretKey("short"))
	assert.NotEqual(t, SecretKey("short"), SecretKey("other"))
}
