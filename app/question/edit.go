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

type questionEditOpts struct {
	Text     *string   `json:"text,omitempty"`
	Type     *string   `json:"type,omitempty"`
	Required *bool     `json:"required,omitempty"`
	Options  *[]string `json:"options,omitempty"`
}

func QuestionEdit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	formID, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	id, ok := httpx.ParamID(c, "questionId", "question")
	if !ok {
		return
	}

	var data questionEditOpts
	if err := c.ShouldBindJSON(&data); err != nil {
		httpx.Abort(c, http.StatusBadRequest, "Malformed or invalid JSON request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if httpx.OwnedForm(c, d, formID) == nil {
		return
	}

	patch := store.QuestionPatch{
		Text:     data.Text,
		Required: data.Required,
		Options:  data.Options,
	}
	if data.Type != nil {
		t := model.QuestionType(*data.Type)
		patch.Type = &t
	}

	q, err := d.Questions.Update(c.Request.Context(), formID, id, patch)
	if err != nil {
		httpx.Error(c, err, "Failed to update question")
		return
	}

	if q == nil {
		httpx.Abort(c, http.StatusNotFound, "Question not found")
		return
	}

	c.JSON(http.StatusOK, q)
}
