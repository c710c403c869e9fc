package middleware

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/photoboard/photoboard/internal/errors"
	"github.com/photoboard/photoboard/internal/services"
)

// RequirePermission aborts with 403 unless the authenticated user holds the
// permission code. The check runs against the database on every request.
func RequirePermission(authz *services.AuthzService, code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		has, err := authz.HasPermission(userID, code)
		if err != nil {
			apierrors.InternalError(c, "Failed to check permissions")
			c.Abort()
			return
		}
		if !has {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
