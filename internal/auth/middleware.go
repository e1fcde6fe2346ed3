package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware guards every route except the configured public paths and the
// swagger UI. Decoded claims are attached to the request context on success.
func Middleware(tokens Tokens, publicPaths []string, logger *zap.Logger) gin.HandlerFunc {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := public[path]; ok {
			c.Next()
			return
		}
		if strings.HasPrefix(path, "/swagger") {
			c.Next()
			return
		}

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			logger.Warn("unauthenticated request", zap.String("path", path))
			deny(c, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				logger.Warn("expired token", zap.String("path", path))
				deny(c, http.StatusUnauthorized, "token expired")
			case errors.Is(err, ErrTokenInvalid):
				logger.Warn("invalid token", zap.String("path", path))
				deny(c, http.StatusUnauthorized, "invalid token")
			default:
				logger.Error("token verification failed", zap.String("path", path), zap.Error(err))
				deny(c, http.StatusInternalServerError, "authentication processing failed")
			}
			return
		}

		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

func deny(c *gin.Context, status int, reason string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": reason})
}

func bearerToken(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	parts := strings.SplitN(v, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
