// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainerror "github.com/fitness-tracker/companion/internal/domain/error"
	"github.com/fitness-tracker/companion/internal/integration/entrypoint/dto"
)

const bearerPrefix = "Bearer "

// AuthMiddleware guards the companion API with a static bearer token.
// An empty token disables the check, which suits a loopback-only listener.
type AuthMiddleware struct {
	token []byte
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(token string) *AuthMiddleware {
	return &AuthMiddleware{token: []byte(token)}
}

// Enabled reports whether requests must carry the token.
func (m *AuthMiddleware) Enabled() bool {
	return len(m.token) > 0
}

// Authenticate returns a Gin middleware handler that enforces the bearer token.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		switch {
		case header == "":
			unauthorized(c, "Authorization header is required", domainerror.ErrCodeMissingToken)
		case !strings.HasPrefix(header, bearerPrefix):
			unauthorized(c, "Invalid authorization header format", domainerror.ErrCodeInvalidToken)
		case subtle.ConstantTimeCompare([]byte(strings.TrimPrefix(header, bearerPrefix)), m.token) != 1:
			unauthorized(c, "Invalid token", domainerror.ErrCodeInvalidToken)
		default:
			c.Next()
		}
	}
}

func unauthorized(c *gin.Context, message string, code domainerror.APIErrorCode) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: message,
		Code:  string(code),
	})
}
