package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eshop-reports-api/internal/services"
)

// ReportHandler handles KPI report HTTP requests
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// historyQuery captures the query parameters of the history endpoint
type historyQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// @Summary Get the latest KPI report
// @Description Return the most recent KPI snapshot, or a zero-valued report when none exists yet
// @Tags reports
// @Produce json
// @Success 200 {object} models.KPISnapshot
// @Failure 500 {object} ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) GetLatestReport(c *gin.Context) {
	snapshot, err := h.reportService.GetLatestReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to fetch reports",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// @Summary Recompute the KPIs
// @Description Compute a fresh KPI snapshot from live data and persist it
// @Tags reports
// @Produce json
// @Success 200 {object} services.UpdateKPIsResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/update-kpis [post]
func (h *ReportHandler) UpdateKPIs(c *gin.Context) {
	snapshot, err := h.reportService.GenerateSnapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to update KPIs",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, services.UpdateKPIsResponse{
		Success: true,
		Message: "KPIs updated successfully",
		KPIs:    snapshot,
	})
}

// @Summary Get trending products
// @Description Return the trending products of the latest KPI snapshot
// @Tags reports
// @Produce json
// @Success 200 {array} models.TrendingProduct
// @Failure 500 {object} ErrorResponse
// @Router /reports/trending-products [get]
func (h *ReportHandler) GetTrendingProducts(c *gin.Context) {
	trending, err := h.reportService.GetTrendingProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to fetch trending products",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, trending)
}

// @Summary Get KPI history
// @Description Return the most recent KPI snapshots, newest first
// @Tags reports
// @Produce json
// @Param limit query int false "Maximum number of snapshots to return" default(7) minimum(1) maximum(100)
// @Success 200 {array} models.KPISnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/history [get]
func (h *ReportHandler) GetKPIHistory(c *gin.Context) {
	var query historyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	history, err := h.reportService.GetKPIHistory(c.Request.Context(), query.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to fetch KPI history",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, history)
}
