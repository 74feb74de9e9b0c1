package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/model"
	"github.com/sekolahku/presensi-backend/internal/response"
	"github.com/sekolahku/presensi-backend/internal/service"
	"github.com/sekolahku/presensi-backend/internal/validator"
)

// AttendanceHandler handles attendance records and their aggregations.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
	log               zerolog.Logger
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService, log zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService, log: log}
}

// ListRecords godoc
// GET /api/v1/attendance?course_id&month&year
// Returns the raw records for UI editing grids.
func (h *AttendanceHandler) ListRecords(c *gin.Context) {
	year, month, ok := periodParams(c)
	if !ok {
		return
	}
	courseID, ok := optionalCourseID(c)
	if !ok {
		return
	}

	records, err := h.attendanceService.ListRecords(c.Request.Context(), courseID, year, month)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, records)
}

// UpsertRecords godoc
// POST /api/v1/attendance
// Upserts a batch of records by (student_id, date). Items fail independently;
// the call itself returns 200 with per-item results.
func (h *AttendanceHandler) UpsertRecords(c *gin.Context) {
	var req model.AttendanceUpsertRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	outcome, err := h.attendanceService.UpsertRecords(c.Request.Context(), req.Records)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, outcome)
}

// GetSummary godoc
// GET /api/v1/attendance/summary?course_id&month&year[&exclude_blocked]
// Returns one course's completeness summary with a weekday breakdown.
func (h *AttendanceHandler) GetSummary(c *gin.Context) {
	year, month, ok := periodParams(c)
	if !ok {
		return
	}
	courseID, ok := requiredCourseID(c)
	if !ok {
		return
	}
	excludeBlocked := c.Query("exclude_blocked") == "true"

	summary, err := h.attendanceService.CourseCompleteness(c.Request.Context(), courseID, year, month, excludeBlocked)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// GetAllSummaries godoc
// GET /api/v1/attendance/summary/all?month&year[&exclude_blocked]
// Returns every course's summary for the month.
func (h *AttendanceHandler) GetAllSummaries(c *gin.Context) {
	year, month, ok := periodParams(c)
	if !ok {
		return
	}
	excludeBlocked := c.Query("exclude_blocked") == "true"

	result, err := h.attendanceService.AllCourseCompleteness(c.Request.Context(), year, month, excludeBlocked)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetPerfect godoc
// GET /api/v1/attendance/perfect?month&year[&course_id]
// Lists students whose present-days exactly cover their required business days.
func (h *AttendanceHandler) GetPerfect(c *gin.Context) {
	year, month, ok := periodParams(c)
	if !ok {
		return
	}
	courseID, ok := optionalCourseID(c)
	if !ok {
		return
	}

	result, err := h.attendanceService.PerfectAttendance(c.Request.Context(), year, month, courseID)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetAnalysis godoc
// GET /api/v1/attendance/analysis?course_id&month&year
// Returns the per-business-day expected/recorded diagnostic rows.
func (h *AttendanceHandler) GetAnalysis(c *gin.Context) {
	year, month, ok := periodParams(c)
	if !ok {
		return
	}
	courseID, ok := requiredCourseID(c)
	if !ok {
		return
	}

	detail, err := h.attendanceService.DailyAnalysis(c.Request.Context(), courseID, year, month)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}
