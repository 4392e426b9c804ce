package handlers

import (
	"errors"
	"net/http"

	"pharmacy_backend/internal/reporting"
	"pharmacy_backend/internal/services"
	"pharmacy_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the reporting service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetDashboardSummary returns the aggregate inventory snapshot.
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.reportService.GetDashboardSummary()
	if err != nil {
		utils.LogError(err, "GetDashboardSummary: failed to build summary")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build dashboard summary.", ""))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportReport streams the inventory as a downloadable file.
// ?format=csv|excel|pdf selects the rendering, defaulting to csv.
func (h *ReportHandler) ExportReport(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	file, err := h.reportService.ExportReport(format)
	if err != nil {
		switch {
		case errors.Is(err, reporting.ErrUnknownFormat):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest,
				"Unknown export format: "+format, ""))
		case errors.Is(err, reporting.ErrNoData):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound,
				"No medicines available to export.", ""))
		default:
			utils.LogError(err, "ExportReport: failed to render report")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to export report.", ""))
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
