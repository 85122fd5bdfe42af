package user

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserDelete removes the caller's account with all of its sessions and
// forms
func UserDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := httpx.ParamID(c, "userId", "user")
	if !ok {
		return
	}

	if id != middleware.UserID(c) {
		httpx.Abort(c, http.StatusForbidden, "You can only delete your own account")
		return
	}

	found, err := d.Users.Delete(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err, "Failed to delete user")
		return
	}

	if !found {
		httpx.Abort(c, http.StatusNotFound, "User not found")
		return
	}

	zap.L().Info("User deleted", zap.Uint("userID", id), zap.String("requestID", requestID))

	c.Status(http.StatusNoContent)
}
