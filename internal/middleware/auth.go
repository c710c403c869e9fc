package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/photoboard/photoboard/internal/constants"
	apierrors "github.com/photoboard/photoboard/internal/errors"
)

// RequireAuth rejects requests without a logged-in session and exposes the
// session's user id on the request context. Sessions always store the id as
// uint64; anything else means a stale or tampered cookie.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(constants.ContextKeyUserID).(uint64)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := v.(uint64)
	return userID, ok
}
