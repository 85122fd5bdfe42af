package question

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

// QuestionList returns a form's questions in creation order
func QuestionList(c *gin.Context, d *internal.Deps) {
	formID, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	questions, err := d.Questions.List(c.Request.Context(), formID)
	if err != nil {
		httpx.Error(c, err, "Failed to list questions")
		return
	}

	c.JSON(http.StatusOK, questions)
}

func QuestionFetch(c *gin.Context, d *internal.Deps) {
	formID, ok := httpx.ParamID(c, "formId", "form")
	if !ok {
		return
	}

	id, ok := httpx.ParamID(c, "questionId", "question")
	if !ok {
		return
	}

	q, err := d.Questions.Get(c.Request.Context(), formID, id)
	if err != nil {
		httpx.Error(c, err, "Failed to fetch question")
		return
	}

	if q == nil {
		httpx.Abort(c, http.StatusNotFound, "Question not found")
		return
	}

	c.JSON(http.StatusOK, q)
}
