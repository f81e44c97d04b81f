package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/facultydesk/leave-api/internal/models"
	"github.com/facultydesk/leave-api/internal/service"
	appErrors "github.com/facultydesk/leave-api/pkg/errors"
	"github.com/facultydesk/leave-api/pkg/response"
)

type leaveReporter interface {
	LeaveReport(ctx context.Context, actor models.Actor, format string) (*service.Report, error)
}

// ReportHandler streams leave exports to HODs and admins.
type ReportHandler struct {
	reports leaveReporter
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports leaveReporter) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// LeaveReport godoc
// @Summary Export leave records as CSV or PDF
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} binary
// @Router /reports/leaves [get]
func (h *ReportHandler) LeaveReport(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	report, err := h.reports.LeaveReport(c.Request.Context(), claims.Actor(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Data(200, report.ContentType, report.Content)
}
