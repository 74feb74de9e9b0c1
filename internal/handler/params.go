package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sekolahku/presensi-backend/internal/response"
)

// periodParams extracts the mandatory month/year query parameters. On failure
// it writes a 400 naming the offending field and returns ok=false.
func periodParams(c *gin.Context) (year, month int, ok bool) {
	missing := make(map[string]string)
	monthStr := c.Query("month")
	yearStr := c.Query("year")
	if monthStr == "" {
		missing["month"] = "month is required"
	}
	if yearStr == "" {
		missing["year"] = "year is required"
	}
	if len(missing) > 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrMissingParam, missing)
		return 0, 0, false
	}

	month, errM := strconv.Atoi(monthStr)
	year, errY := strconv.Atoi(yearStr)
	if errM != nil || errY != nil || month < 1 || month > 12 || year < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
		return 0, 0, false
	}
	return year, month, true
}

// optionalCourseID parses the course_id query parameter when present.
// A malformed value writes a 400 and returns ok=false.
func optionalCourseID(c *gin.Context) (*int, bool) {
	raw := c.Query("course_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, false
	}
	return &id, true
}

// requiredCourseID parses a mandatory course_id query parameter.
func requiredCourseID(c *gin.Context) (int, bool) {
	raw := c.Query("course_id")
	if raw == "" {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrMissingParam,
			map[string]string{"course_id": "course_id is required"})
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// pathID parses a numeric :id path parameter.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
