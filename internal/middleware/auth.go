package middleware

import (
	"net/http"

	"github.com/beratcankara/inoflow/internal/access"
	"github.com/beratcankara/inoflow/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const authKey = "Auth"

// RequireAuth rejects requests without a logged-in session (401) and
// stashes the caller's AuthContext for the handlers downstream.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		uid, _ := sess.Get("user_id").(string)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		roleStr, _ := sess.Get("role").(string)
		name, _ := sess.Get("name").(string)
		email, _ := sess.Get("email").(string)

		c.Set(authKey, access.AuthContext{
			UserID: uid,
			Role:   models.UserRole(roleStr),
			Name:   name,
			Email:  email,
		})
		c.Next()
	}
}

// Auth returns the caller's AuthContext set by RequireAuth.
func Auth(c *gin.Context) (access.AuthContext, bool) {
	v, ok := c.Get(authKey)
	if !ok {
		return access.AuthContext{}, false
	}
	ctx, ok := v.(access.AuthContext)
	return ctx, ok
}

// RequireRole rejects callers whose role is not in the allow list.
// Runs after RequireAuth.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		ctx, ok := Auth(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if _, ok := roleSet[ctx.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}
