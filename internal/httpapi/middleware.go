package httpapi

import (
	"telecom-care/internal/audit"
	"telecom-care/internal/auth"

	"github.com/gin-gonic/gin"
)

// WithAuditActor copies the authenticated identity onto the request context
// so audit events carry who made the change. Mount after auth.RequireAccessToken.
func WithAuditActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		uid, err := auth.UserID(ctx)
		if err == nil && uid != "" {
			role, _ := auth.Role(ctx)
			c.Request = c.Request.WithContext(audit.WithActor(ctx, audit.Actor{UserID: uid, Role: role}))
		}
		c.Next()
	}
}
