package middleware

import (
	"time" // Preflight cache

	"github.com/gin-contrib/cors" // CORS handling
	"github.com/gin-gonic/gin"    // Gin web framework
)

// CORS allows credentialed requests from origins accepted by allowed
func CORS(allowed func(origin string) bool) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc:  allowed,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With", "X-XSRF-TOKEN", "X-CSRF-TOKEN"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
