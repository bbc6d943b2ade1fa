package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell_backend/internal/logger"
	"inkwell_backend/pkg/apperrors"
)

// ContextUserID is the gin context key holding the authenticated user id (uint).
const ContextUserID = "userID"

// SessionVerifier resolves a session token to a user id.
type SessionVerifier interface {
	VerifySession(token string) (uint, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func authenticate(c *gin.Context, verifier SessionVerifier, token string) bool {
	userID, err := verifier.VerifySession(token)
	if err != nil {
		return false
	}
	c.Set(ContextUserID, userID)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID))
	return true
}

// AuthMiddleware rejects requests without a valid session token.
func AuthMiddleware(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			c.Abort()
			return
		}
		if !authenticate(c, verifier, token) {
			logger.CtxWarn(c.Request.Context(), "Rejected session token", "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ErrSessionInvalid)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is sent and lets
// anonymous requests through otherwise.
func OptionalAuthMiddleware(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := BearerToken(c); token != "" {
			authenticate(c, verifier, token)
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id, or 0 for anonymous requests.
func GetUserID(c *gin.Context) uint {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}
