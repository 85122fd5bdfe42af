// Package question contains the endpoints for a form's questions
package question

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/internal/model"
	"bitwise74/forms-api/internal/store"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type questionBody struct {
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options"`
}

func QuestionCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	formID, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	var data questionBody
	if err := c.ShouldBindJSON(&data); err != nil {
		httpx.Abort(c, http.StatusBadRequest, "Malformed or invalid JSON request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if httpx.OwnedForm(c, d, formID) == nil {
		return
	}

	q, err := d.Questions.Create(c.Request.Context(), formID, store.QuestionInput{
		Text:     data.Text,
		Type:     model.QuestionType(data.Type),
		Required: data.Required,
		Options:  data.Options,
	})
	if err != nil {
		httpx.Error(c, err, "Failed to create question")
		return
	}

	c.JSON(http.StatusCreated, q)
}
