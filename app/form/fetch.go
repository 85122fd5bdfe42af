package form

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

func FormFetch(c *gin.Context, d *internal.Deps) {
	id, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	form, err := d.Forms.Get(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err, "Failed to fetch form")
		return
	}

	c.JSON(http.StatusOK, form)
}
