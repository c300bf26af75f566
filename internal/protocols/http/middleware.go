package http

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"codebin/internal/core"
	"codebin/pkg/logger"
	"codebin/pkg/models"
)

const identityKey = "identity"

// RequestLogger emits one structured log line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.HTTP(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), int(time.Since(start).Milliseconds()))
	}
}

// AuthMiddleware validates the bearer token and sets the caller identity.
// Requests without a valid token are rejected.
func AuthMiddleware(authSvc core.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(401, models.APIResponse{
				Success:   false,
				Error:     "missing or malformed authorization header",
				Timestamp: time.Now(),
			})
			c.Abort()
			return
		}

		user, err := authSvc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(401, models.APIResponse{
				Success:   false,
				Error:     "unauthorized",
				Timestamp: time.Now(),
			})
			c.Abort()
			return
		}

		c.Set(identityKey, user.Identity())
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller identity when a bearer token is
// present and valid, and leaves the request anonymous otherwise. A bad token
// still fails loudly: silently downgrading a caller to anonymous would make
// their private snippets disappear with no hint why.
func OptionalAuthMiddleware(authSvc core.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		user, err := authSvc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(401, models.APIResponse{
				Success:   false,
				Error:     "unauthorized",
				Timestamp: time.Now(),
			})
			c.Abort()
			return
		}

		c.Set(identityKey, user.Identity())
		c.Next()
	}
}

// AdminMiddleware ensures the caller has the admin role
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := GetIdentity(c)
		if caller == nil {
			c.JSON(401, models.APIResponse{
				Success:   false,
				Error:     "unauthorized",
				Timestamp: time.Now(),
			})
			c.Abort()
			return
		}
		if !caller.IsAdmin() {
			c.JSON(403, models.APIResponse{
				Success:   false,
				Error:     "forbidden: admin access required",
				Timestamp: time.Now(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetIdentity returns the caller identity, or nil for anonymous requests
func GetIdentity(c *gin.Context) *models.Identity {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	id, ok := v.(*models.Identity)
	if !ok {
		return nil
	}
	return id
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
