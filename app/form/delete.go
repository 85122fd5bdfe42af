package form

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FormDelete removes a form together with its questions and responses
func FormDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	if httpx.OwnedForm(c, d, id) == nil {
		return
	}

	found, err := d.Forms.Delete(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err, "Failed to delete form")
		return
	}

	if !found {
		httpx.Abort(c, http.StatusNotFound, "Form not found")
		return
	}

	zap.L().Info("Form deleted", zap.Uint("formID", id), zap.String("requestID", requestID))

	c.Status(http.StatusNoContent)
}
