package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/exoream/sayur/internal/models"
	"github.com/exoream/sayur/internal/util"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// Caller is the authenticated identity attached to a request. It is an
// immutable value handed to handlers, never a shared mutable object.
type Caller struct {
	UserID uint
	Role   string
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// Auth verifies the bearer token and stores the Caller on the context.
// Missing or invalid credentials short-circuit before any handler runs.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		if tokenStr == "" {
			util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Fail(c, util.NewResponseError("Unauthorized", http.StatusUnauthorized))
			c.Abort()
			return
		}

		c.Set(callerKey, Caller{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// RequireAdmin rejects callers without the ADMIN role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok || !caller.IsAdmin() {
			util.Fail(c, util.ErrForbidden("Hanya admin yang dapat mengakses resource ini"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerFrom returns the authenticated caller set by Auth.
func CallerFrom(c *gin.Context) (Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return Caller{}, false
	}
	caller, ok := v.(Caller)
	return caller, ok
}
