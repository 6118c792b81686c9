package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolog/backend/internal/service"
)

// RecordHandler serves read-only lists of the raw log tables
type RecordHandler struct {
	records service.IRecordService
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(records service.IRecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// RegisterRoutes registers the record routes
func (h *RecordHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/glucose", h.ListGlucose)
	router.GET("/insulin", h.ListInsulin)
	router.GET("/intake", h.ListIntake)
	router.GET("/supplement-intake", h.ListSupplementIntake)
	router.GET("/event", h.ListEvents)
	router.GET("/nutrition", h.ListNutrition)
	router.GET("/supplements", h.ListSupplements)
}

func (h *RecordHandler) ListGlucose(c *gin.Context) {
	rows, err := h.records.ListGlucose(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	respond(c, rows, err)
}

func (h *RecordHandler) ListInsulin(c *gin.Context) {
	rows, err := h.records.ListInsulin(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	respond(c, rows, err)
}

func (h *RecordHandler) ListIntake(c *gin.Context) {
	rows, err := h.records.ListIntake(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	respond(c, rows, err)
}

func (h *RecordHandler) ListSupplementIntake(c *gin.Context) {
	rows, err := h.records.ListSupplementIntake(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	respond(c, rows, err)
}

func (h *RecordHandler) ListEvents(c *gin.Context) {
	rows, err := h.records.ListEvents(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	respond(c, rows, err)
}

func (h *RecordHandler) ListNutrition(c *gin.Context) {
	rows, err := h.records.ListNutrition(c.Request.Context())
	respond(c, rows, err)
}

func (h *RecordHandler) ListSupplements(c *gin.Context) {
	rows, err := h.records.ListSupplements(c.Request.Context())
	respond(c, rows, err)
}

func respond(c *gin.Context, body interface{}, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}
