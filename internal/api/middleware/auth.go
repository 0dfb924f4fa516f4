package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"persona-video/internal/api/errors"
)

// AllowMethods rejects any other method with 405 before authentication runs
func AllowMethods(methods ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !lo.Contains(methods, c.Request.Method) {
			HandleError(c, errors.NewMethodNotAllowedError())
			return
		}
		c.Next()
	}
}

// AccessPassword compares the password header to the configured secret.
// It is a plain equality check, an access gate and nothing stronger.
func AccessPassword(password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(PasswordHeader) != password {
			HandleError(c, errors.NewUnauthorizedError())
			return
		}
		c.Next()
	}
}
