package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestGenerateTokenPairAndValidate(t *testing.T) {
	access, refresh, err := GenerateTokenPair(42, "maria@example.com", false)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := ValidateToken(access, AudienceAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.CustomerID)
	assert.Equal(t, "maria@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)

	claims, err = ValidateToken(refresh, AudienceRefresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.CustomerID)
}

func TestValidateTokenRejectsWrongAudience(t *testing.T) {
	access, refresh, err := GenerateTokenPair(7, "a@b.com", false)
	require.NoError(t, err)

	_, err = ValidateToken(access, AudienceRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateToken(refresh, AudienceAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", AudienceAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	expired, err := generateToken(1, "a@b.com", false, AudienceAccess, -1)
	require.NoError(t, err)

	_, err = ValidateToken(expired, AudienceAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	claims := Claims{
		CustomerID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Audience: jwt.ClaimStrings{AudienceAccess},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = ValidateToken(signed, AudienceAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAdminFlagRoundTrips(t *testing.T) {
	access, _, err := GenerateTokenPair(9, "root@example.com", true)
	require.NoError(t, err)

	claims, err := ValidateToken(access, AudienceAccess)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}
