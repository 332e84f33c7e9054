// Package middleware holds the gin middleware shared by every route group.
package middleware

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes and cookies

	"account_portal/internal/session" // Server-side sessions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// Context keys set by the session middleware
const (
	SessionKey = "session" // *session.Session
	UserIDKey  = "userID"  // uint, only on authenticated routes
	UserKey    = "user"    // *domain.User, set by EnsureVerified
)

// XSRFCookie is the script-readable cookie mirroring the session CSRF token
const XSRFCookie = "XSRF-TOKEN"

// Sessions binds the session manager to the cookies it is delivered in
type Sessions struct {
	Manager    *session.Manager
	CookieName string // HttpOnly cookie carrying the session id
	Secure     bool   // Send cookies over HTTPS only
}

// Load attaches the session named by the request cookie, if it is still alive.
// Requests without a live session continue as anonymous.
func (s *Sessions) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(s.CookieName)
		if err != nil || id == "" {
			c.Next()
			return
		}
		sess, err := s.Manager.Load(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logrus.WithFields(logrus.Fields{"error": err.Error()}).Error("Failed to load session")
			}
			c.Next()
			return
		}
		s.Issue(c, sess) // Slide cookie expiry with the record
		c.Next()
	}
}

// Issue makes sess the request's session and writes both cookies
func (s *Sessions) Issue(c *gin.Context, sess *session.Session) {
	c.Set(SessionKey, sess)
	maxAge := int(s.Manager.TTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.CookieName, sess.ID, maxAge, "/", "", s.Secure, true)
	c.SetCookie(XSRFCookie, sess.CSRFToken, maxAge, "/", "", s.Secure, false) // Read by the SPA
}

// Current returns the request's session or nil
func Current(c *gin.Context) *session.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// RequireAuth rejects requests without an authenticated session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := Current(c)
		if !sess.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}
		c.Set(UserIDKey, sess.UserID) // Store userID in context
		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth
func UserID(c *gin.Context) uint {
	return c.GetUint(UserIDKey)
}
