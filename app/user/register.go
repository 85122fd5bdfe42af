package user

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBindJSON(&data); err != nil {
		httpx.Abort(c, http.StatusBadRequest, "Malformed or invalid JSON request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		httpx.Invalid(c, "email", err)
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		httpx.Invalid(c, "password", err)
		return
	}

	if err := validators.NameValidator(data.Name); err != nil {
		httpx.Invalid(c, "name", err)
		return
	}

	hash, err := d.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		httpx.Error(c, err, "Failed to hash password")
		return
	}

	user, err := d.Users.Create(c.Request.Context(), data.Email, hash, data.Name)
	if err != nil {
		httpx.Error(c, err, "Failed to create user")
		return
	}

	zap.L().Info("User registered", zap.Uint("userID", user.ID), zap.String("requestID", requestID))

	c.JSON(http.StatusCreated, user)
}
