package api

import (
	"context"  // Ping timeout
	"net/http" // HTTP status codes
	"time"     // Timeouts

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging
)

// HealthHandler reports whether the server and its Redis backend are reachable
func HealthHandler(rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				logrus.WithFields(logrus.Fields{"error": err.Error()}).Warn("Health check: Redis unreachable")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
