package question

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

func QuestionDelete(c *gin.Context, d *internal.Deps) {
	formID, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	id, ok := httpx.ParamID(c, "questionId", "question")
	if !ok {
		return
	}

	if httpx.OwnedForm(c, d, formID) == nil {
		return
	}

	found, err := d.Questions.Delete(c.Request.Context(), formID, id)
	if err != nil {
		httpx.Error(c, err, "Failed to delete question")
		return
	}

	if !found {
		httpx.Abort(c, http.StatusNotFound, "Question not found")
		return
	}

	c.Status(http.StatusNoContent)
}
