// internal/api/auth_middleware.go
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/solidwrite/pseo/internal/auth"
	"github.com/solidwrite/pseo/internal/utils"
)

const tokenSubjectKey = "token_subject"

// RequireScope rejects requests without a bearer token carrying scope.
// A nil config leaves the route open.
func RequireScope(config *auth.TokenConfig, scope string) gin.HandlerFunc {
	responses := NewResponseHelper()

	return func(c *gin.Context) {
		if config == nil {
			c.Next()
			return
		}

		raw, ok := bearerToken(c)
		if !ok {
			responses.Error(c, http.StatusUnauthorized, ErrorUnauthorized, "bearer token required")
			c.Abort()
			return
		}

		token, err := auth.Authorize(raw, scope, config)
		if err != nil {
			utils.GetLogger().Warn("token rejected", map[string]interface{}{
				"scope":      scope,
				"error":      err.Error(),
				"request_id": c.GetString(requestIDKey),
			})
			responses.Error(c, http.StatusForbidden, ErrorForbidden, "token not accepted")
			c.Abort()
			return
		}

		c.Set(tokenSubjectKey, token.Subject)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
