package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"max.ks1230/spendwise/internal/entity/account"
)

const (
	usernameKey = "username"
	tokenKey    = "sessionToken"
)

type sessionResolver interface {
	Resolve(token string) (string, bool)
}

type accountGetter interface {
	Get(ctx context.Context, username string) (account.Record, error)
}

// SessionAuth resolves the bearer token into a username and stashes
// both on the request context.
func SessionAuth(sessions sessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		username, ok := sessions.Resolve(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		c.Set(usernameKey, username)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// AdminOnly gates the feedback review view behind the admin role.
func AdminOnly(accounts accountGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := accounts.Get(c.Request.Context(), currentUser(c))
		if err != nil || !rec.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(usernameKey)
}

func currentToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
