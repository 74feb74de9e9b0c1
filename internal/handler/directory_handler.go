package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/response"
	"github.com/sekolahku/presensi-backend/internal/service"
)

// DirectoryHandler serves the read-only course and student listings used by
// dashboard filters.
type DirectoryHandler struct {
	directoryService *service.DirectoryService
	log              zerolog.Logger
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(directoryService *service.DirectoryService, log zerolog.Logger) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService, log: log}
}

// ListCourses godoc
// GET /api/v1/courses
func (h *DirectoryHandler) ListCourses(c *gin.Context) {
	courses, err := h.directoryService.ListCourses(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, courses)
}

// ListStudents godoc
// GET /api/v1/students?course_id
func (h *DirectoryHandler) ListStudents(c *gin.Context) {
	courseID, ok := optionalCourseID(c)
	if !ok {
		return
	}

	students, err := h.directoryService.ListStudents(c.Request.Context(), courseID)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, students)
}
