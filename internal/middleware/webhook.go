package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireWebhookSecret gates the automation hook endpoints with a
// shared-secret header instead of a session.
func RequireWebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			// No secret configured: hooks are disabled outright rather
			// than left open.
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "webhook secret not configured"})
			return
		}
		got := c.GetHeader("x-webhook-secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid webhook secret"})
			return
		}
		c.Next()
	}
}

// NoStore disables caching on user-scoped responses.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "private, no-store, no-cache, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Vary", "Cookie")
		c.Next()
	}
}
