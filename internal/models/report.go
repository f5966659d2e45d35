package models

import "time"

// GradeBreakdown aggregates fee status counts for a single grade.
type GradeBreakdown struct {
	Grade      string `json:"grade"`
	Students   int    `json:"students"`
	Paid       int    `json:"paid"`
	Partial    int    `json:"partial"`
	Pending    int    `json:"pending"`
	AmountPaid Amount `json:"amount_paid"`
}

// FeeDistribution is the share of students per status, in percent.
type FeeDistribution struct {
	Paid    float64 `json:"paid"`
	Partial float64 `json:"partial"`
	Pending float64 `json:"pending"`
}

// FeeSummary is the reporting view over a student collection.
type FeeSummary struct {
	Term            string           `json:"term,omitempty"`
	Currency        string           `json:"currency"`
	TotalStudents   int              `json:"total_students"`
	PaidCount       int              `json:"paid_count"`
	PartialCount    int              `json:"partial_count"`
	PendingCount    int              `json:"pending_count"`
	TotalAmountPaid Amount           `json:"total_amount_paid"`
	Distribution    FeeDistribution  `json:"distribution"`
	ByGrade         []GradeBreakdown `json:"by_grade"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatPDF  ReportFormat = "pdf"
	ReportFormatJSON ReportFormat = "json"
)
