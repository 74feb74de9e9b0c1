package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/response"
	"github.com/sekolahku/presensi-backend/internal/service"
)

// writeServiceError maps a service-layer error onto the response envelope.
// Data-store failures keep their detail in the log, not the client payload.
func writeServiceError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPeriod):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPeriod)
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		var dsErr *service.DataStoreError
		if errors.As(err, &dsErr) {
			log.Error().Err(dsErr).Str("op", dsErr.Op).Msg("Data store failure")
			response.Fail(c, http.StatusInternalServerError, response.ErrDataStore)
			return
		}
		log.Error().Err(err).Msg("Unhandled service error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
