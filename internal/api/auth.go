package api

import (
	"net/http" // HTTP status codes

	"account_portal/internal/middleware" // Sessions and auth context
	"account_portal/internal/service"    // Account operations
	"account_portal/internal/session"    // Session records

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// RegisterRequest is the body of POST /api/register
type RegisterRequest struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// DeleteAccountRequest is the body of DELETE /api/user
type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// CSRFCookieHandler starts a guest session so the SPA receives its XSRF-TOKEN cookie
func CSRFCookieHandler(sessions *middleware.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.Current(c) != nil {
			c.Status(http.StatusNoContent) // Cookies already refreshed by Load
			return
		}
		sess, err := sessions.Manager.Start(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		sessions.Issue(c, sess)
		c.Status(http.StatusNoContent)
	}
}

// RegisterHandler creates an account and mails a verification link; it does not log in
func RegisterHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if !bindJSON(c, &req) {
			return
		}
		errs := FieldErrors{}
		requireConfirmed(errs, "password", req.Password, req.PasswordConfirmation)
		if len(errs) > 0 {
			respondValidation(c, errs)
			return
		}
		user, err := auth.Register(c.Request.Context(), service.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Registration successful. Please check your email to verify your account.",
			"user":    newUserResponse(user, nil),
		})
	}
}

// LoginHandler authenticates the user and binds them to a fresh session id.
// Unverified accounts get 423 and their session is thrown away.
func LoginHandler(auth *service.AuthService, sessions *middleware.Sessions, avatars avatarURLer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if !bindJSON(c, &req) {
			return
		}
		ctx := c.Request.Context()
		user, err := auth.Authenticate(ctx, req.Email, req.Password)
		if service.ErrorCode(err) == service.CodeEmailNotVerified {
			if guest, ierr := sessions.Manager.Invalidate(ctx, middleware.Current(c)); ierr == nil {
				sessions.Issue(c, guest)
			} else {
				logrus.WithFields(logrus.Fields{"error": ierr.Error()}).Error("Failed to invalidate session")
			}
			respondError(c, err)
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"client_ip": c.ClientIP()}).Warn("Failed login attempt")
			respondError(c, err)
			return
		}

		sess := middleware.Current(c)
		if sess == nil {
			if sess, err = sessions.Manager.Start(ctx); err != nil {
				respondError(c, err)
				return
			}
		}
		sess, err = sessions.Manager.Login(ctx, sess, user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		sessions.Issue(c, sess)
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("User logged in")
		c.JSON(http.StatusOK, gin.H{"message": "Logged in", "user": newUserResponse(user, avatars)})
	}
}

// LogoutHandler destroys the session and hands out a new guest session
func LogoutHandler(sessions *middleware.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		guest, err := sessions.Manager.Invalidate(c.Request.Context(), middleware.Current(c))
		if err != nil {
			respondError(c, err)
			return
		}
		sessions.Issue(c, guest)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// CurrentUserHandler returns the signed-in user
func CurrentUserHandler(auth *service.AuthService, avatars avatarURLer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.User(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(user, avatars))
	}
}

// DeleteAccountHandler deletes the account after a password check and ends every session of the user
func DeleteAccountHandler(profile *service.ProfileService, sessions *middleware.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteAccountRequest
		if !bindJSON(c, &req) {
			return
		}
		ctx := c.Request.Context()
		userID := middleware.UserID(c)
		if err := profile.DeleteAccount(ctx, userID, req.Password); err != nil {
			respondError(c, err)
			return
		}
		endUserSessions(c, sessions.Manager, userID)
		guest, err := sessions.Manager.Invalidate(ctx, middleware.Current(c))
		if err != nil {
			respondError(c, err)
			return
		}
		sessions.Issue(c, guest)
		c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
	}
}

// endUserSessions logs userID out everywhere
func endUserSessions(c *gin.Context, sessions *session.Manager, userID uint) {
	if err := sessions.DestroyUser(c.Request.Context(), userID); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Failed to destroy sessions")
	}
}
