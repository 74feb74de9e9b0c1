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

// EnrollmentHandler manages the enrollment windows behind the aggregator.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
	log               zerolog.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService, log zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService, log: log}
}

// ListEnrollments godoc
// GET /api/v1/enrollments?course_id
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	courseID, ok := optionalCourseID(c)
	if !ok {
		return
	}

	details, err := h.enrollmentService.ListDetails(c.Request.Context(), courseID)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, details)
}

// CreateEnrollment godoc
// POST /api/v1/enrollments
func (h *EnrollmentHandler) CreateEnrollment(c *gin.Context) {
	var req model.EnrollmentCreateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollment, err := h.enrollmentService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEnrollment):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		case errors.Is(err, repository.ErrUnknownStudent):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			writeServiceError(c, h.log, err)
		}
		return
	}

	response.Success(c, http.StatusCreated, enrollment)
}

// WithdrawEnrollment godoc
// POST /api/v1/enrollments/:id/withdraw
func (h *EnrollmentHandler) WithdrawEnrollment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.EnrollmentWithdrawRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.enrollmentService.Withdraw(c.Request.Context(), id, &req); err != nil {
		if errors.Is(err, service.ErrWithdrawalBeforeEnrollment) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"withdrawn_on": err.Error()})
			return
		}
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id})
}
