package middleware

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"account_portal/internal/domain"     // Domain models
	"account_portal/internal/repository" // Persistence

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// EnsureVerified loads the authenticated user on each request and rejects
// accounts whose email address is not verified. Must run after RequireAuth.
func EnsureVerified(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(UserIDKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}
		id, _ := userID.(uint)
		user, err := users.FindByID(c.Request.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			// Account deleted under a live session
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": id, "error": err.Error()}).Error("Failed to load user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		if !user.HasVerifiedEmail() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Your email address is not verified."})
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}

// User returns the user loaded by EnsureVerified, or nil
func User(c *gin.Context) *domain.User {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
