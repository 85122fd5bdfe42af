// Package export lets form owners snapshot a form into object storage
package export

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

func ExportCreate(c *gin.Context, d *internal.Deps) {
	formID, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	if d.Exporter == nil {
		httpx.Abort(c, http.StatusServiceUnavailable, "Response exports are disabled")
		return
	}

	if httpx.OwnedForm(c, d, formID) == nil {
		return
	}

	key, err := d.Exporter.ExportForm(c.Request.Context(), formID)
	if err != nil {
		httpx.Error(c, err, "Failed to export form")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key})
}
