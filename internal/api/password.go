package api

import (
	"net/http" // HTTP status codes
	"net/url"  // Redirect building

	"account_portal/internal/middleware" // Sessions and auth context
	"account_portal/internal/service"    // Account operations

	"github.com/gin-gonic/gin" // Gin web framework
)

// ForgotPasswordRequest is the body of POST /api/forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest is the body of POST /api/reset-password
type ResetPasswordRequest struct {
	Token                string `json:"token" binding:"required"`
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// UpdatePasswordRequest is the body of PUT /api/password
type UpdatePasswordRequest struct {
	CurrentPassword      string `json:"current_password" binding:"required"`
	Password             string `json:"password" binding:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ForgotPasswordHandler mails a reset link when the address is registered.
// Every caller gets the same answer.
func ForgotPasswordHandler(passwords *service.PasswordService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ForgotPasswordRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := passwords.RequestReset(c.Request.Context(), req.Email); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "If that email address is registered, a password reset link has been sent."})
	}
}

// ResetPasswordHandler consumes a reset token and logs the user out everywhere
func ResetPasswordHandler(passwords *service.PasswordService, sessions *middleware.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest
		if !bindJSON(c, &req) {
			return
		}
		errs := FieldErrors{}
		requireConfirmed(errs, "password", req.Password, req.PasswordConfirmation)
		if len(errs) > 0 {
			respondValidation(c, errs)
			return
		}
		user, err := passwords.ResetPassword(c.Request.Context(), req.Token, req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		endUserSessions(c, sessions.Manager, user.ID)
		c.JSON(http.StatusOK, gin.H{"message": "Your password has been reset."})
	}
}

// ResetPasswordRedirectHandler forwards mailed reset links to the SPA reset page
func ResetPasswordRedirectHandler(frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		target := frontendURL + "/reset-password/" + url.PathEscape(c.Param("token"))
		if email := c.Query("email"); email != "" {
			target += "?email=" + url.QueryEscape(email)
		}
		c.Redirect(http.StatusFound, target)
	}
}

// UpdatePasswordHandler changes the signed-in user's password and rotates the CSRF token
func UpdatePasswordHandler(passwords *service.PasswordService, sessions *middleware.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdatePasswordRequest
		if !bindJSON(c, &req) {
			return
		}
		errs := FieldErrors{}
		requireConfirmed(errs, "password", req.Password, req.PasswordConfirmation)
		if len(errs) > 0 {
			respondValidation(c, errs)
			return
		}
		ctx := c.Request.Context()
		if err := passwords.UpdatePassword(ctx, middleware.UserID(c), req.CurrentPassword, req.Password); err != nil {
			respondError(c, err)
			return
		}
		if sess := middleware.Current(c); sess != nil {
			if err := sessions.Manager.RegenerateToken(ctx, sess); err != nil {
				respondError(c, err)
				return
			}
			sessions.Issue(c, sess)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
