package middleware

import (
	"context"
	"net/http"

	"student_portal/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GroupLookup loads the names of the groups a user belongs to
type GroupLookup interface {
	UserGroups(ctx context.Context, userID int) ([]string, error)
}

// GroupMiddleware lets the request through only if the authenticated user
// belongs to the required group. Membership is read on every request so
// group changes apply without reissuing tokens.
func GroupMiddleware(lookup GroupLookup, required string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get(AuthUserKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}
		userID, ok := userIDVal.(int)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid user ID type in context"})
			return
		}

		groups, err := lookup.UserGroups(c.Request.Context(), userID)
		if err != nil {
			log.Error("failed to load user groups", zap.Int("user_id", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Failed to check permissions"})
			return
		}

		if !model.HasGroup(groups, required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
			return
		}

		c.Set(AuthGroupsKey, groups)
		c.Next()
	}
}

// DekanatMiddleware restricts a route to the dean's office
func DekanatMiddleware(lookup GroupLookup, log *zap.Logger) gin.HandlerFunc {
	return GroupMiddleware(lookup, model.GroupDekanat, log)
}
