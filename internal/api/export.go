package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolog/backend/internal/service"
)

// ExportHandler triggers a data export to object storage
type ExportHandler struct {
	export service.IExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(export service.IExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// RegisterRoutes registers the export route
func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/export", h.CreateExport)
}

// CreateExport uploads a snapshot of every table and returns its location
func (h *ExportHandler) CreateExport(c *gin.Context) {
	res, err := h.export.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
