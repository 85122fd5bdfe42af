// Package form contains the form endpoints
package form

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/pkg/middleware"
	"bitwise74/forms-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type formBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func FormCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data formBody
	if err := c.ShouldBindJSON(&data); err != nil {
		httpx.Abort(c, http.StatusBadRequest, "Malformed or invalid JSON request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.TitleValidator(data.Title); err != nil {
		httpx.Invalid(c, "title", err)
		return
	}

	if err := validators.DescriptionValidator(data.Description); err != nil {
		httpx.Invalid(c, "description", err)
		return
	}

	form, err := d.Forms.Create(c.Request.Context(), middleware.UserID(c), data.Title, data.Description)
	if err != nil {
		httpx.Error(c, err, "Failed to create form")
		return
	}

	c.JSON(http.StatusCreated, form)
}
