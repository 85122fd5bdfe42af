package session

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionDelete revokes the bearer token used for this request
func SessionDelete(c *gin.Context, d *internal.Deps) {
	if err := d.Sessions.Delete(c.Request.Context(), c.GetString("token")); err != nil {
		httpx.Error(c, err, "Failed to delete session")
		return
	}

	c.Status(http.StatusOK)
}
