package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("unit-test-secret")

	token, err := GenerateJWT(42, "curator", true, 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "curator", claims.Username)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, "museum-catalog", claims.Issuer)

	SetJWTSecret("rotated-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestExpiredJWT(t *testing.T) {
	SetJWTSecret("unit-test-secret")

	token, err := GenerateJWT(1, "curator", true, -1)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}
