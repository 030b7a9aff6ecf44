package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aprendia/estadistica-backend/internal/response"
	"github.com/aprendia/estadistica-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ContextKeySession is the Gin context key for the session context.
const ContextKeySession = "session"

// RequireSession is the uniform access-control gate: it validates the
// bearer JWT, checks the token against the active session record and puts
// a SessionContext into the request context. Anonymous callers are turned
// away here, never in per-route logic.
func RequireSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		sess, err := authService.LoadSession(c.Request.Context(), claims)
		if err != nil {
			if errors.Is(err, service.ErrNoSession) {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
				return
			}
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		c.Set(ContextKeySession, sess)
		c.Next()
	}
}

// GetSession retrieves the session context from the Gin context.
func GetSession(c *gin.Context) *service.SessionContext {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	sess, ok := val.(*service.SessionContext)
	if !ok {
		return nil
	}
	return sess
}

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1], nil
		}
	}

	// Fallback for clients that cannot send headers.
	if token := c.Query("token"); token != "" {
		return token, nil
	}

	return "", fmt.Errorf("authorization header or token query required")
}
