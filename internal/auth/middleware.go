package auth

import (
	"net/http"
	"strings"
	"time"

	"telecom-care/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Gin context keys set by RequireAccessToken.
const (
	GinUserID = "user_id"
	GinEmail  = "email"
	GinRole   = "role"
)

func bearerToken(c *gin.Context) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

// RequireAccessToken admits staff requests carrying a valid access token and
// puts the staff identity on the request context. Role checks live in rbac.
func RequireAccessToken(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := m.Verify(tok, TokenTypeAccess, time.Now())
		if err != nil {
			logger.FromGin(c).Debug("access token rejected", "err", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), claims.UserID, claims.Email, claims.Role))
		c.Set(GinUserID, claims.UserID)
		c.Set(GinEmail, claims.Email)
		c.Set(GinRole, claims.Role)
		c.Next()
	}
}
