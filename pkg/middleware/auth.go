package middleware

import (
	"bitwise74/forms-api/internal/model"
	"bitwise74/forms-api/pkg/fault"
	"bitwise74/forms-api/pkg/security"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionVerifier answers whether a token is still stored server side
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*model.SessionUser, error)
}

// TokenParser checks a token's signature and expiry
type TokenParser interface {
	Parse(token string) (*security.Claims, error)
}

// NewAuthMiddleware authenticates "Authorization: Bearer <token>" requests.
// A token must both verify cryptographically and still have a session row,
// so logging out revokes it immediately. On success userID, userEmail,
// userName and token are set on the context.
func NewAuthMiddleware(tokens TokenParser, sessions SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := RequestID(c)

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "No token provided")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if tokenStr == "" {
			abortUnauthorized(c, "Empty token provided")
			return
		}

		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			if errors.Is(err, security.ErrTokenExpired) {
				abortUnauthorized(c, "Token expired")
				return
			}

			zap.L().Debug("Rejected bearer token", zap.Error(err), zap.String("requestID", requestID))
			abortUnauthorized(c, "Invalid token")
			return
		}

		session, err := sessions.Verify(c.Request.Context(), tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, fault.Status(http.StatusInternalServerError, "Internal server error", requestID))

			zap.L().Error("Failed to verify session", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if session == nil || session.UserID != claims.UserID {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("userID", session.UserID)
		c.Set("userEmail", session.Email)
		c.Set("userName", session.Name)
		c.Set("token", tokenStr)
		c.Next()
	}
}

// UserID returns the authenticated user's id set by NewAuthMiddleware
func UserID(c *gin.Context) uint {
	return c.GetUint("userID")
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, fault.Status(http.StatusUnauthorized, msg, RequestID(c)))
}
