// Package session handles logging in and out
package session

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func SessionCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBindJSON(&data); err != nil {
		httpx.Abort(c, http.StatusBadRequest, "Malformed or invalid JSON request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" {
		httpx.Abort(c, http.StatusBadRequest, "Email field can't be empty")
		return
	}

	if data.Password == "" {
		httpx.Abort(c, http.StatusBadRequest, "Password field can't be empty")
		return
	}

	user, err := d.Users.GetByEmail(c.Request.Context(), data.Email)
	if err != nil {
		httpx.Error(c, err, "Failed to fetch user")
		return
	}

	// Same reply for unknown emails and wrong passwords
	if user == nil {
		httpx.Abort(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	ok, err := d.Argon.VerifyPasswd(data.Password, user.Password)
	if err != nil {
		httpx.Error(c, err, "Failed to verify password")
		return
	}

	if !ok {
		httpx.Abort(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := d.Tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		httpx.Error(c, err, "Failed to generate auth token")
		return
	}

	if err := d.Sessions.Create(c.Request.Context(), user.ID, token); err != nil {
		httpx.Error(c, err, "Failed to store session")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":  token,
		"userId": strconv.FormatUint(uint64(user.ID), 10),
		"user":   user,
	})
}
