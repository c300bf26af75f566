package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"codebin/pkg/logger"
	"codebin/pkg/models"
)

// respondError maps service errors to transport codes. The not-found body is
// a fixed string on purpose: a denied read and a genuinely missing resource
// must be indistinguishable on the wire.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(404, models.APIResponse{
			Success:   false,
			Error:     "not found",
			Timestamp: time.Now(),
		})
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(400, models.APIResponse{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
	case errors.Is(err, models.ErrUnauthorized):
		c.JSON(401, models.APIResponse{
			Success:   false,
			Error:     "authentication required",
			Timestamp: time.Now(),
		})
	case errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(401, models.APIResponse{
			Success:   false,
			Error:     "invalid credentials",
			Timestamp: time.Now(),
		})
	case errors.Is(err, models.ErrUsernameExists):
		c.JSON(409, models.APIResponse{
			Success:   false,
			Error:     "username already taken",
			Timestamp: time.Now(),
		})
	default:
		// Internal detail stays server-side
		logger.Errorf("request failed: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(500, models.APIResponse{
			Success:   false,
			Error:     "internal server error",
			Timestamp: time.Now(),
		})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(400, models.APIResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now(),
	})
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}
