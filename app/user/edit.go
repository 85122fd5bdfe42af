package user

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/internal/model"
	"bitwise74/forms-api/internal/store"
	"bitwise74/forms-api/pkg/middleware"
	"bitwise74/forms-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type userEditOpts struct {
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

type userEditResponse struct {
	*model.User
	PasswordChanged bool `json:"passwordChanged"`
}

func UserEdit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := httpx.ParamID(c, "userId", "user")
	if !ok {
		return
	}

	if id != middleware.UserID(c) {
		httpx.Abort(c, http.StatusForbidden, "You can only modify your own account")
		return
	}

	var data userEditOpts
	if err := c.ShouldBindJSON(&data); err != nil {
		httpx.Abort(c, http.StatusBadRequest, "Malformed or invalid JSON request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == nil && data.Name == nil && data.Password == nil {
		httpx.Abort(c, http.StatusBadRequest, "No fields to update provided")
		return
	}

	patch := store.UserPatch{Email: data.Email, Name: data.Name}

	if data.Email != nil {
		if err := validators.EmailValidator(*data.Email); err != nil {
			httpx.Invalid(c, "email", err)
			return
		}
	}

	if data.Name != nil {
		if err := validators.NameValidator(*data.Name); err != nil {
			httpx.Invalid(c, "name", err)
			return
		}
	}

	if data.Password != nil {
		if err := validators.PasswordValidator(*data.Password); err != nil {
			httpx.Invalid(c, "password", err)
			return
		}

		hash, err := d.Argon.GenerateFromPassword(*data.Password)
		if err != nil {
			httpx.Error(c, err, "Failed to hash password")
			return
		}
		patch.PasswordHash = &hash
	}

	user, err := d.Users.Update(c.Request.Context(), id, patch)
	if err != nil {
		httpx.Error(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, userEditResponse{
		User:            user,
		PasswordChanged: data.Password != nil,
	})
}
