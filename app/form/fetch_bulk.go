package form

import (
	"bitwise74/forms-api/app/httpx"
	"bitwise74/forms-api/internal"
	"bitwise74/forms-api/internal/store"
	"bitwise74/forms-api/pkg/middleware"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxLimit = 250

// FormFetchBulk lists the caller's forms. Supports page (zero based),
// limit and sort (newest, oldest, az, za).
func FormFetchBulk(c *gin.Context, d *internal.Deps) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		httpx.Abort(c, http.StatusBadRequest, "Page must be a number")
		return
	}

	if page < 0 {
		httpx.Abort(c, http.StatusBadRequest, "Page can't be negative")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		httpx.Abort(c, http.StatusBadRequest, "Limit must be a number")
		return
	}

	if limit <= 0 {
		httpx.Abort(c, http.StatusBadRequest, "Limit must be greater than 0")
		return
	}

	if limit > maxLimit {
		httpx.Abort(c, http.StatusBadRequest, "Limit must be at most 250")
		return
	}

	sort := strings.ToLower(c.DefaultQuery("sort", "newest"))
	if _, ok := store.FormSorts[sort]; !ok {
		httpx.Abort(c, http.StatusBadRequest, "Invalid sorting option")
		return
	}

	forms, err := d.Forms.ListByOwner(c.Request.Context(), middleware.UserID(c), store.ListOptions{
		Page:  page,
		Limit: limit,
		Sort:  sort,
	})
	if err != nil {
		httpx.Error(c, err, "Failed to list forms")
		return
	}

	c.JSON(http.StatusOK, forms)
}
