package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/model"
	"github.com/sekolahku/presensi-backend/internal/repository"
	"github.com/sekolahku/presensi-backend/internal/response"
	"github.com/sekolahku/presensi-backend/internal/service"
	"github.com/sekolahku/presensi-backend/internal/validator"
)

// BlockedDayHandler manages the blocked-day calendar.
type BlockedDayHandler struct {
	blockedDayService *service.BlockedDayService
	log               zerolog.Logger
}

// NewBlockedDayHandler creates a new BlockedDayHandler.
func NewBlockedDayHandler(blockedDayService *service.BlockedDayService, log zerolog.Logger) *BlockedDayHandler {
	return &BlockedDayHandler{blockedDayService: blockedDayService, log: log}
}

// ListBlockedDays godoc
// GET /api/v1/blocked-days?month&year[&course_id]
func (h *BlockedDayHandler) ListBlockedDays(c *gin.Context) {
	year, month, ok := periodParams(c)
	if !ok {
		return
	}
	courseID, ok := optionalCourseID(c)
	if !ok {
		return
	}

	days, err := h.blockedDayService.ListByMonth(c.Request.Context(), year, month, courseID)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, days)
}

// CheckBlockedDay godoc
// GET /api/v1/blocked-days/check?date[&course_id]
// Answers whether a single date is blocked, with the recorded reasons.
func (h *BlockedDayHandler) CheckBlockedDay(c *gin.Context) {
	date, err := model.ParseDate(c.Query("date"))
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"date": "date is required in YYYY-MM-DD format"})
		return
	}
	courseID, ok := optionalCourseID(c)
	if !ok {
		return
	}

	check, err := h.blockedDayService.IsBlocked(c.Request.Context(), date, courseID)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, check)
}

// CreateBlockedDay godoc
// POST /api/v1/blocked-days
func (h *BlockedDayHandler) CreateBlockedDay(c *gin.Context) {
	var req model.BlockedDayCreateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	day, err := h.blockedDayService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateBlockedDay) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, day)
}

// DeleteBlockedDay godoc
// DELETE /api/v1/blocked-days/:id
func (h *BlockedDayHandler) DeleteBlockedDay(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.blockedDayService.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id})
}
