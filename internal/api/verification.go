package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Id parsing
	"strings"  // Header inspection

	"account_portal/internal/middleware" // Auth context
	"account_portal/internal/service"    // Account operations

	"github.com/gin-gonic/gin" // Gin web framework
)

// ResendVerificationRequest is the body of POST /api/email/resend-verification
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// wantsJSON reports whether the caller is an API client rather than a browser navigation
func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

// VerifyEmailHandler checks a signed verification link.
// Browsers are redirected to the SPA login page on success.
func VerifyEmailHandler(verification *service.VerificationService, frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		if _, err := verification.Verify(c.Request.Context(), uint(id), c.Param("hash"), c.Query("signature")); err != nil {
			respondError(c, err)
			return
		}
		if wantsJSON(c) {
			c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
			return
		}
		c.Redirect(http.StatusFound, frontendURL+"/login?verified=1")
	}
}

// ResendVerificationHandler mails a new link to an unverified address.
// The answer never reveals whether the address is registered.
func ResendVerificationHandler(verification *service.VerificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResendVerificationRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := verification.Resend(c.Request.Context(), req.Email); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "verification-link-sent"})
	}
}

// VerificationNotificationHandler mails a new link to the signed-in user
func VerificationNotificationHandler(verification *service.VerificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sent, err := verification.SendForUser(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if !sent {
			c.JSON(http.StatusOK, gin.H{"message": "already-verified"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "verification-link-sent"})
	}
}
