package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolog/backend/internal/service"
)

// DashboardHandler handles the aggregated dashboard views
type DashboardHandler struct {
	dashboard service.IDashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard service.IDashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// RegisterRoutes registers the dashboard routes behind the given middleware
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup, mw ...gin.HandlerFunc) {
	dashboard := router.Group("/dashboard", mw...)
	{
		dashboard.GET("/summary", h.GetSummary)
		dashboard.GET("/glucose-chart", h.GetGlucoseChart)
	}
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.GetPreviousIntake)
	router.GET("/intake/previous-window", handlers...)
}

// GetSummary returns the AM/PM timesheet between start_date and end_date
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	rows, err := h.dashboard.Summary(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetGlucoseChart returns the time-weighted glucose means per week or day
func (h *DashboardHandler) GetGlucoseChart(c *gin.Context) {
	points, err := h.dashboard.GlucoseChart(c.Request.Context(),
		c.Query("start_date"), c.Query("end_date"), c.Query("granularity"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// GetPreviousIntake returns the intakes of the window before the current one
func (h *DashboardHandler) GetPreviousIntake(c *gin.Context) {
	prev, err := h.dashboard.PreviousIntake(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prev)
}
