package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestJWTUtil_GenerateToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, 24*time.Hour)
	userID := 1

	tokenString, err := jwtUtil.GenerateToken(userID, TokenTypeAccess)

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := jwtUtil.ValidateToken(tokenString, TokenTypeAccess)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTUtil_GenerateTokenPair(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", 5*time.Minute, 24*time.Hour)

	pair, err := jwtUtil.GenerateTokenPair(42)
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	access, err := jwtUtil.ValidateToken(pair.Access, TokenTypeAccess)
	assert.NoError(t, err)
	assert.Equal(t, 42, access.UserID)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), access.ExpiresAt.Time, 5*time.Second)

	refresh, err := jwtUtil.ValidateToken(pair.Refresh, TokenTypeRefresh)
	assert.NoError(t, err)
	assert.Equal(t, 42, refresh.UserID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), refresh.ExpiresAt.Time, 5*time.Second)
}

func TestJWTUtil_ValidateToken_WrongType(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, time.Hour)
	pair, _ := jwtUtil.GenerateTokenPair(1)

	_, err := jwtUtil.ValidateToken(pair.Refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = jwtUtil.ValidateToken(pair.Access, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestJWTUtil_ValidateToken_InvalidToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, time.Hour)

	_, err := jwtUtil.ValidateToken("invalid.token.string", TokenTypeAccess)
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_ExpiredToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", -time.Hour, -time.Hour) // Token expires in the past

	tokenString, _ := jwtUtil.GenerateToken(1, TokenTypeAccess)

	_, err := jwtUtil.ValidateToken(tokenString, TokenTypeAccess)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTUtil_ValidateToken_WrongSecret(t *testing.T) {
	jwtUtil1 := NewJWTUtil("secret1", time.Hour, time.Hour)
	jwtUtil2 := NewJWTUtil("secret2", time.Hour, time.Hour)

	tokenString, _ := jwtUtil1.GenerateToken(1, TokenTypeAccess)

	_, err := jwtUtil2.ValidateToken(tokenString, TokenTypeAccess)
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_InvalidSigningMethod(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour, time.Hour)
	claims := &JWTClaims{
		UserID:    1,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)

	_, err := jwtUtil.ValidateToken(tokenString, TokenTypeAccess)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected signing method")
}
