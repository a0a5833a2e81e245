// Package v1 contains the handlers of the first API version.
package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseID reads the ":id" URL parameter.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		newError(c, http.StatusBadRequest, ErrInvalidUUID)
		return uuid.Nil, false
	}

	return id, true
}

// parseYear reads the "year" query parameter. required=false turns an
// absent year into 0, which the service reads as "all years".
func parseYear(c *gin.Context, required bool) (int, bool) {
	raw := c.Query("year")
	if raw == "" && !required {
		return 0, true
	}

	year, err := strconv.Atoi(raw)
	if err != nil || year < 1000 || year > 9999 {
		newError(c, http.StatusBadRequest, ErrInvalidYear)
		return 0, false
	}

	return year, true
}

// parseMonths reads the "months" query parameter, a comma-separated
// list of month numbers. Absent or "all" means no filter.
func parseMonths(c *gin.Context) ([]int, bool) {
	raw := c.DefaultQuery("months", "all")
	if raw == "all" {
		return nil, true
	}

	var months []int
	for _, field := range strings.Split(raw, ",") {
		month, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || month < 1 || month > 12 {
			newError(c, http.StatusBadRequest, ErrInvalidMonths)
			return nil, false
		}

		months = append(months, month)
	}

	return months, true
}
