package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const apiVersion = "1.0.0"

func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Constructo API is running", "version": apiVersion})
	}
}

// Health pings the database; a failed ping turns the probe unhealthy.
func Health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now().UTC().Format(time.RFC3339)
		if err := ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "timestamp": now, "error": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": now})
	}
}
