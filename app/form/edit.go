package form

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/internal/store"
	"bitwise74/forms-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type formEditOpts struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func FormEdit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	var data formEditOpts
	if err := c.ShouldBindJSON(&data); err != nil {
		httpx.Abort(c, http.StatusBadRequest, "Malformed or invalid JSON request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Title != nil {
		if err := validators.TitleValidator(*data.Title); err != nil {
			httpx.Invalid(c, "title", err)
			return
		}
	}

	if data.Description != nil {
		if err := validators.DescriptionValidator(*data.Description); err != nil {
			httpx.Invalid(c, "description", err)
			return
		}
	}

	if httpx.OwnedForm(c, d, id) == nil {
		return
	}

	form, err := d.Forms.Update(c.Request.Context(), id, store.FormPatch{
		Title:       data.Title,
		Description: data.Description,
	})
	if err != nil {
		httpx.Error(c, err, "Failed to update form")
		return
	}

	c.JSON(http.StatusOK, form)
}
