package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/fee-tracker-console/internal/models"
	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
	"github.com/noah-isme/fee-tracker-console/pkg/export"
)

// StudentDataFilename is the download name of the raw student export.
const StudentDataFilename = "student-data.json"

type studentLister interface {
	List(ctx context.Context) ([]models.Student, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
	Path(filename string) string
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title, subtitle string) ([]byte, error)
}

type jsonRenderer interface {
	Render(v interface{}) ([]byte, error)
}

// ExportResult is a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
	StoredPath  string
}

// ReportService summarises fee collections and renders exports. Every report
// reads the collection afresh; it never shares a view's cache.
type ReportService struct {
	students studentLister
	policy   FeePolicy
	storage  exportStorage
	csv      csvRenderer
	pdf      pdfRenderer
	json     jsonRenderer
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	term     string
	keep     int
	archived []string
}

// NewReportService constructs a ReportService. A nil storage skips archiving rendered files.
func NewReportService(students studentLister, policy FeePolicy, storage exportStorage, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, json jsonRenderer) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if json == nil {
		json = export.NewJSONExporter()
	}
	return &ReportService{
		students: students,
		policy:   policy,
		storage:  storage,
		csv:      csv,
		pdf:      pdf,
		json:     json,
		logger:   logger,
		now:      time.Now,
	}
}

// UseTerm sets the term label attached to summaries. It is registered as a
// settings term listener.
func (s *ReportService) UseTerm(term string) {
	s.mu.Lock()
	s.term = term
	s.mu.Unlock()
}

func (s *ReportService) activeTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.term
}

// Summary aggregates counts and totals using the canonical fee status rule.
func (s *ReportService) Summary(students []models.Student) models.FeeSummary {
	catalog := s.policy.Catalog()
	summary := models.FeeSummary{
		Term:          s.activeTerm(),
		Currency:      catalog.Currency,
		TotalStudents: len(students),
		ByGrade:       []models.GradeBreakdown{},
		GeneratedAt:   s.now().UTC(),
	}

	grades := make(map[string]*models.GradeBreakdown)
	var order []string
	for _, st := range students {
		status := s.policy.Status(st.AmountPaid)
		summary.TotalAmountPaid += st.AmountPaid

		g, ok := grades[st.Grade]
		if !ok {
			g = &models.GradeBreakdown{Grade: st.Grade}
			grades[st.Grade] = g
			order = append(order, st.Grade)
		}
		g.Students++
		g.AmountPaid += st.AmountPaid

		switch status {
		case models.FeeStatusPaid:
			summary.PaidCount++
			g.Paid++
		case models.FeeStatusPartial:
			summary.PartialCount++
			g.Partial++
		default:
			summary.PendingCount++
			g.Pending++
		}
	}

	summary.Distribution = models.FeeDistribution{
		Paid:    percent(summary.PaidCount, summary.TotalStudents),
		Partial: percent(summary.PartialCount, summary.TotalStudents),
		Pending: percent(summary.PendingCount, summary.TotalStudents),
	}

	for _, grade := range catalog.Grades {
		if g, ok := grades[grade]; ok {
			summary.ByGrade = append(summary.ByGrade, *g)
			delete(grades, grade)
		}
	}
	for _, grade := range order {
		if g, ok := grades[grade]; ok {
			summary.ByGrade = append(summary.ByGrade, *g)
		}
	}
	return summary
}

// Build reads the student collection and summarises it.
func (s *ReportService) Build(ctx context.Context) (models.FeeSummary, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return models.FeeSummary{}, err
	}
	return s.Summary(students), nil
}

// Export reads the student collection and renders it in the requested format.
func (s *ReportService) Export(ctx context.Context, format models.ReportFormat) (*ExportResult, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}
	switch format {
	case models.ReportFormatJSON:
		return s.ExportStudentsJSON(students)
	case models.ReportFormatCSV, models.ReportFormatPDF:
		return s.renderTable(students, format)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
}

// ExportStudentsJSON renders the raw records as an indented JSON document.
func (s *ReportService) ExportStudentsJSON(students []models.Student) (*ExportResult, error) {
	if students == nil {
		students = []models.Student{}
	}
	payload, err := s.json.Render(students)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportResult{Filename: StudentDataFilename, ContentType: "application/json", Payload: payload}, nil
}

func (s *ReportService) renderTable(students []models.Student, format models.ReportFormat) (*ExportResult, error) {
	dataset := s.dataset(students)
	summary := s.Summary(students)

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	default:
		subtitle := fmt.Sprintf("Paid %d | Partial %d | Pending %d | Generated %s",
			summary.PaidCount, summary.PartialCount, summary.PendingCount, summary.GeneratedAt.Format("2006-01-02 15:04"))
		if summary.Term != "" {
			subtitle = summary.Term + " | " + subtitle
		}
		payload, err = s.pdf.Render(dataset, "Student Fee Report", subtitle)
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	result := &ExportResult{
		Filename:    s.filename(format),
		ContentType: contentType,
		Payload:     payload,
	}
	if s.storage != nil {
		stored, err := s.storage.Save(result.Filename, payload)
		if err != nil {
			s.logger.Warn("archive export failed", zap.String("file", result.Filename), zap.Error(err))
		} else {
			result.StoredPath = s.storage.Path(stored)
			s.prune(stored)
		}
	}
	return result, nil
}

// KeepArchives bounds the number of archived exports this service retains on
// disk. Zero keeps every file.
func (s *ReportService) KeepArchives(n int) {
	s.mu.Lock()
	s.keep = n
	s.mu.Unlock()
}

func (s *ReportService) prune(stored string) {
	s.mu.Lock()
	s.archived = append(s.archived, stored)
	var expired []string
	if s.keep > 0 && len(s.archived) > s.keep {
		cut := len(s.archived) - s.keep
		expired = append(expired, s.archived[:cut]...)
		s.archived = append([]string(nil), s.archived[cut:]...)
	}
	s.mu.Unlock()

	for _, name := range expired {
		if err := s.storage.Delete(name); err != nil {
			s.logger.Warn("prune export failed", zap.String("file", name), zap.Error(err))
			continue
		}
		s.logger.Debug("export pruned", zap.String("file", name))
	}
}

var reportHeaders = []string{"Admission No", "Name", "Grade", "Amount Paid", "Status", "Deficit", "Overpayment"}

func (s *ReportService) dataset(students []models.Student) export.Dataset {
	rows := make([]map[string]string, 0, len(students))
	var total models.Amount
	for _, st := range students {
		total += st.AmountPaid
		rows = append(rows, map[string]string{
			"Admission No": st.AdmissionNumber,
			"Name":         st.FullName(),
			"Grade":        st.Grade,
			"Amount Paid":  st.AmountPaid.String(),
			"Status":       string(s.policy.Status(st.AmountPaid)),
			"Deficit":      optionalAmount(st.Deficit),
			"Overpayment":  optionalAmount(st.Overpayment),
		})
	}
	return export.Dataset{
		Headers: reportHeaders,
		Rows:    rows,
		Footer: map[string]string{
			"Name":        "Total",
			"Amount Paid": total.String(),
		},
	}
}

func (s *ReportService) filename(format models.ReportFormat) string {
	name := "fee-report"
	if term := strings.TrimSpace(s.activeTerm()); term != "" {
		name += "-" + strings.ToLower(strings.ReplaceAll(term, " ", "-"))
	}
	return fmt.Sprintf("%s-%s.%s", name, s.now().UTC().Format("20060102-150405"), format)
}

func optionalAmount(a *models.Amount) string {
	if a == nil {
		return ""
	}
	return a.String()
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
