package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fee-tracker-console/internal/models"
	"github.com/noah-isme/fee-tracker-console/internal/service"
	"github.com/noah-isme/fee-tracker-console/pkg/response"
)

type reportService interface {
	Build(ctx context.Context) (models.FeeSummary, error)
	Export(ctx context.Context, format models.ReportFormat) (*service.ExportResult, error)
}

// ReportHandler exposes fee summary and export endpoints.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Summary godoc
// @Summary Fee collection summary
// @Description Totals, per-grade breakdown and payment status distribution for the active term.
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reports.Build(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Export godoc
// @Summary Download the fee report
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "csv, pdf or json" default(csv)
// @Success 200 {file} file
// @Router /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	format := models.ReportFormat(strings.ToLower(c.DefaultQuery("format", string(models.ReportFormatCSV))))
	result, err := h.reports.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.StoredPath != "" {
		c.Header("X-Export-Path", result.StoredPath)
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}
