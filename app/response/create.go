package response

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/internal/metrics"
	"bitwise74/forms-api/internal/store"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResponseCreate stores a submission and all of its answers at once
func ResponseCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	formID, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	var data responseBody
	if err := c.ShouldBindJSON(&data); err != nil {
		httpx.Abort(c, http.StatusBadRequest, "Malformed or invalid JSON request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// An unknown form wins over a malformed submission
	ok, err := d.Forms.Exists(c.Request.Context(), formID)
	if err != nil {
		httpx.Error(c, err, "Failed to check form")
		return
	}

	if !ok {
		httpx.Error(c, store.FormNotFound(formID), "Form not found")
		return
	}

	name, email, err := data.respondent()
	if err != nil {
		httpx.Error(c, err, "Invalid respondent")
		return
	}

	answers, err := data.answers()
	if err != nil {
		httpx.Error(c, err, "Invalid answers")
		return
	}

	r, err := d.Responses.Create(c.Request.Context(), formID, store.ResponseInput{
		RespondentName:  name,
		RespondentEmail: email,
		Answers:         answers,
	})
	if err != nil {
		httpx.Error(c, err, "Failed to create response")
		return
	}

	metrics.ResponsesSubmitted.Inc()

	c.JSON(http.StatusCreated, r)
}
