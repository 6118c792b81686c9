package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolog/backend/internal/middleware"
	"github.com/pageza/glucolog/backend/internal/model"
	"github.com/pageza/glucolog/backend/internal/report"
	"github.com/pageza/glucolog/backend/internal/service"
)

// errorKind maps a domain error to its HTTP status and machine-readable kind
func errorKind(err error) (int, string) {
	switch {
	case errors.Is(err, report.ErrInvalidDate):
		return http.StatusBadRequest, "invalid_date"
	case errors.Is(err, report.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_range"
	case errors.Is(err, report.ErrInvalidGranularity):
		return http.StatusBadRequest, "invalid_granularity"
	case errors.Is(err, model.ErrInvalidWeight):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, report.ErrOrphanReference):
		return http.StatusConflict, "orphan_reference"
	case errors.Is(err, service.ErrExportDisabled):
		return http.StatusServiceUnavailable, "export_disabled"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// respondError writes err as {"error", "kind"}. Internal errors are logged by
// the request logger through c.Error and not echoed to the client.
func respondError(c *gin.Context, err error) {
	status, kind := errorKind(err)
	_ = c.Error(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, middleware.ErrorResponse{Error: msg, Kind: kind})
}
