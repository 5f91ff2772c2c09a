package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-admin-api/internal/session"
)

// ClientInfo puts the caller's address and user agent on the request context
// so recorded actions can be attributed.
func ClientInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		client := session.Client{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
		c.Request = c.Request.WithContext(session.WithClient(c.Request.Context(), client))
		c.Next()
	}
}
