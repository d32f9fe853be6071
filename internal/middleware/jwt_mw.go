package middleware

import (
	"errors"
	"net/http"
	"strings"

	"student_portal/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey   = "authUser"
	AuthGroupsKey = "authGroups"
)

var (
	errNoCredentials = errors.New("Authentication credentials were not provided.")
	errBadHeader     = errors.New("Authorization header must contain two space-delimited values")
)

// bearerToken extracts the raw token from an "Authorization: Bearer <token>" header
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errNoCredentials
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" || strings.Contains(token, " ") {
		return "", errBadHeader
	}
	return token, nil
}

// JWTAuthMiddleware accepts access tokens only; a refresh token presented here is rejected.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
			return
		}

		claims, err := jwtUtil.ValidateToken(raw, utils.TokenTypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}

		c.Set(AuthUserKey, claims.UserID)
		c.Next()
	}
}
