package response

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

func ResponseDelete(c *gin.Context, d *internal.Deps) {
	formID, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	id, ok := httpx.ParamID(c, "id", "response")
	if !ok {
		return
	}

	found, err := d.Responses.Delete(c.Request.Context(), formID, id)
	if err != nil {
		httpx.Error(c, err, "Failed to delete response")
		return
	}

	if !found {
		responseNotFound(c, id)
		return
	}

	c.Status(http.StatusNoContent)
}
