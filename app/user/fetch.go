package user

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

func UserFetch(c *gin.Context, d *internal.Deps) {
	id, ok := httpx.ParamID(c, "userId", "user")
	if !ok {
		return
	}

	user, err := d.Users.Get(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, user)
}

func UserFetchAll(c *gin.Context, d *internal.Deps) {
	users, err := d.Users.List(c.Request.Context())
	if err != nil {
		httpx.Error(c, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, users)
}
