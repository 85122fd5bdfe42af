package session

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/pkg/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionFetch returns the user behind the bearer token
func SessionFetch(c *gin.Context, d *internal.Deps) {
	user, err := d.Users.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Error(c, err, "Failed to fetch session user")
		return
	}

	c.JSON(http.StatusOK, user)
}
