// Package httpx holds the response helpers shared by the handlers
package httpx

import (
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/internal/model"
	"bitwise74/forms-api/pkg/fault"
	"bitwise74/forms-api/pkg/middleware"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error aborts the request with the envelope matching err. Server side
// failures are logged with msg.
func Error(c *gin.Context, err error, msg string) {
	requestID := middleware.RequestID(c)
	body := fault.NewBody(err, requestID)

	if body.Code >= http.StatusInternalServerError {
		zap.L().Error(msg, zap.Error(err), zap.String("requestID", requestID))
	} else {
		zap.L().Debug(msg, zap.Error(err), zap.String("requestID", requestID))
	}

	c.AbortWithStatusJSON(body.Code, body)
}

// Abort replies with a plain status and message
func Abort(c *gin.Context, code int, msg string, details ...fault.Detail) {
	body := fault.Status(code, msg, middleware.RequestID(c))
	body.Details = append(body.Details, details...)

	c.AbortWithStatusJSON(code, body)
}

// Invalid replies 400 with a single field detail
func Invalid(c *gin.Context, field string, err error) {
	Abort(c, http.StatusBadRequest, "Validation failed", fault.Detail{Field: field, Message: err.Error()})
}

// ParamID reads a numeric path parameter. On failure it has already
// replied and returns false.
func ParamID(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		Abort(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID", label), fault.Detail{
			Field:   name,
			Message: fmt.Sprintf("%s must be a positive integer", name),
		})
		return 0, false
	}

	return uint(id), true
}

// OwnedForm loads a form the caller is allowed to modify. On failure it
// has already replied and returns nil.
func OwnedForm(c *gin.Context, d *internal.Deps, formID uint) *model.Form {
	form, err := d.Forms.Get(c.Request.Context(), formID)
	if err != nil {
		Error(c, err, "Failed to fetch form")
		return nil
	}

	if form.UserID != middleware.UserID(c) {
		Abort(c, http.StatusForbidden, "You don't have permission to modify this form")
		return nil
	}

	return form
}
