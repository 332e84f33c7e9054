package middleware

import (
	"net/http" // HTTP methods and status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// StatusCSRFMismatch is the status returned when the anti-forgery token is wrong
const StatusCSRFMismatch = 419

// CSRF requires state-changing requests to echo the session CSRF token in
// the X-XSRF-TOKEN (or X-CSRF-TOKEN) header.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		token := c.GetHeader("X-XSRF-TOKEN")
		if token == "" {
			token = c.GetHeader("X-CSRF-TOKEN")
		}
		if !Current(c).ValidCSRF(token) {
			c.AbortWithStatusJSON(StatusCSRFMismatch, gin.H{"message": "CSRF token mismatch."})
			return
		}
		c.Next()
	}
}
