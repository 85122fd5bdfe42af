package response

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/internal/store"
	"bitwise74/forms-api/pkg/fault"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResponseEdit updates respondent fields and, when answers is sent,
// replaces the whole answer set. An empty array clears it.
func ResponseEdit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	formID, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	id, ok := httpx.ParamID(c, "id", "response")
	if !ok {
		return
	}

	var data responseBody
	if err := c.ShouldBindJSON(&data); err != nil {
		httpx.Abort(c, http.StatusBadRequest, "Malformed or invalid JSON request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	name, email, err := data.respondentPatch()
	if err != nil {
		httpx.Error(c, err, "Invalid respondent")
		return
	}

	patch := store.ResponsePatch{
		RespondentName:  name,
		RespondentEmail: email,
	}

	if !isAbsent(data.Answers) {
		answers, err := data.answers()
		if err != nil {
			httpx.Error(c, err, "Invalid answers")
			return
		}
		patch.Answers = &answers
	}

	r, err := d.Responses.Update(c.Request.Context(), formID, id, patch)
	if err != nil {
		httpx.Error(c, err, "Failed to update response")
		return
	}

	if r == nil {
		responseNotFound(c, id)
		return
	}

	c.JSON(http.StatusOK, r)
}

func responseNotFound(c *gin.Context, id uint) {
	httpx.Abort(c, http.StatusNotFound, "Response not found", fault.Detail{
		Message: fmt.Sprintf("Response with ID %d does not exist", id),
	})
}
