package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/facultydesk/leave-api/internal/dto"
	"github.com/facultydesk/leave-api/internal/models"
	appErrors "github.com/facultydesk/leave-api/pkg/errors"
	"github.com/facultydesk/leave-api/pkg/export"
)

type reportLeaveLister interface {
	List(ctx context.Context, actor models.Actor, query dto.LeaveQuery) ([]models.LeaveDetail, error)
}

type reportArchive interface {
	Save(filename string, data []byte) (string, error)
}

// Report is a rendered export ready to stream to the caller.
type Report struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService renders the actor's visible leave records as CSV or PDF.
// When an archive is configured, every rendered export is also written
// there for audit purposes.
type ReportService struct {
	leaves  reportLeaveLister
	archive reportArchive
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportService constructs the service. archive may be nil.
func NewReportService(leaves reportLeaveLister, archive reportArchive, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		leaves:  leaves,
		archive: archive,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		now:     time.Now,
	}
}

var reportHeaders = []string{"Faculty", "Department", "Type", "Start", "End", "Days", "Status", "Resolver"}

// LeaveReport exports leave records within the actor's visibility. Scoping
// reuses the lifecycle manager's listing rules, so an HOD's report never
// leaks records outside their department.
func (s *ReportService) LeaveReport(ctx context.Context, actor models.Actor, format string) (*Report, error) {
	if actor.Role != models.RoleHOD && actor.Role != models.RoleAdmin {
		return nil, appErrors.ErrForbidden
	}

	leaves, err := s.leaves.List(ctx, actor, dto.LeaveQuery{SortBy: "created_at", Limit: 200})
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: reportHeaders, Rows: make([]map[string]string, 0, len(leaves))}
	for _, leave := range leaves {
		resolver := ""
		if leave.ResolverName != nil {
			resolver = *leave.ResolverName
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Faculty":    leave.FacultyName,
			"Department": leave.FacultyDepartment,
			"Type":       string(leave.LeaveType),
			"Start":      leave.StartDate.Format(dateLayout),
			"End":        leave.EndDate.Format(dateLayout),
			"Days":       strconv.Itoa(leave.TotalDays),
			"Status":     string(leave.Status),
			"Resolver":   resolver,
		})
	}

	stamp := s.now().UTC().Format("20060102")
	var report *Report
	switch strings.ToLower(format) {
	case "", "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV report")
		}
		report = &Report{
			FileName:    fmt.Sprintf("leave-report-%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}
	case "pdf":
		title := "Leave Report"
		if actor.Role == models.RoleHOD {
			title = fmt.Sprintf("Leave Report - %s", actor.Department)
		}
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF report")
		}
		report = &Report{
			FileName:    fmt.Sprintf("leave-report-%s.pdf", stamp),
			ContentType: "application/pdf",
			Content:     content,
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	if s.archive != nil {
		if _, err := s.archive.Save(report.FileName, report.Content); err != nil {
			s.logger.Warn("failed to archive report", zap.String("file", report.FileName), zap.Error(err))
		}
	}
	return report, nil
}
