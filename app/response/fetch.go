package response

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResponseList returns every response of a form, newest first
func ResponseList(c *gin.Context, d *internal.Deps) {
	formID, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	responses, err := d.Responses.FindAll(c.Request.Context(), formID)
	if err != nil {
		httpx.Error(c, err, "Failed to list responses")
		return
	}

	c.JSON(http.StatusOK, responses)
}

func ResponseFetch(c *gin.Context, d *internal.Deps) {
	formID, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	id, ok := httpx.ParamID(c, "id", "response")
	if !ok {
		return
	}

	r, err := d.Responses.FindByID(c.Request.Context(), formID, id)
	if err != nil {
		httpx.Error(c, err, "Failed to fetch response")
		return
	}

	if r == nil {
		responseNotFound(c, id)
		return
	}

	c.JSON(http.StatusOK, r)
}
