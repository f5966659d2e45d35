package service

import (
	"context"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/fee-tracker-console/internal/dto"
	"github.com/noah-isme/fee-tracker-console/internal/models"
	"github.com/noah-isme/fee-tracker-console/internal/repository"
	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
)

const (
	studentsView = "students"

	defaultPaymentStatus = "partial"
)

type studentFeeRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByAdmission(ctx context.Context, admission string) (*models.Student, error)
	PatchAmount(ctx context.Context, id int64, amount int64) (*models.Student, error)
	UpdatePayment(ctx context.Context, admission string, req dto.UpdatePaymentRequest) (string, error)
	RecordFeePayment(ctx context.Context, admission string, req dto.FeePaymentRequest) (string, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// StudentFeeView is the state container behind one mounted student fee page.
// It owns its cache; nothing is shared with sibling views.
type StudentFeeView struct {
	id        string
	repo      studentFeeRepository
	policy    FeePolicy
	feed      *NotificationFeed
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger

	cache  *viewCache[models.Student]
	stage  deleteStage
	mu     sync.RWMutex
	filter models.StudentFilter
}

// NewStudentFeeView constructs an empty, unloaded view.
func NewStudentFeeView(id string, repo studentFeeRepository, policy FeePolicy, feed *NotificationFeed, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *StudentFeeView {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if feed == nil {
		feed = NewNotificationFeed(0, logger)
	}
	return &StudentFeeView{
		id:        id,
		repo:      repo,
		policy:    policy,
		feed:      feed,
		metrics:   metrics,
		validator: validate,
		logger:    logger.With(zap.String("view", studentsView), zap.String("view_id", id)),
		cache: newViewCache(
			func(s models.Student) int64 { return s.ID },
			func(s models.Student) models.Student { return s.Clone() },
		),
	}
}

// ID returns the view identifier.
func (v *StudentFeeView) ID() string { return v.id }

// Notifications exposes the view's feed.
func (v *StudentFeeView) Notifications() *NotificationFeed { return v.feed }

// Load replaces the cache with one read of the full collection.
func (v *StudentFeeView) Load(ctx context.Context) error {
	students, err := v.repo.List(ctx)
	if err != nil {
		v.cache.reset()
		v.feed.Error("load", "Failed to load students: "+appErrors.FromError(err).Message)
		return err
	}
	v.cache.replace(students)
	v.logger.Debug("students loaded", zap.Int("count", len(students)))
	return nil
}

// Loaded reports whether the last load succeeded.
func (v *StudentFeeView) Loaded() bool { return v.cache.isLoaded() }

// Total is the size of the unfiltered cache.
func (v *StudentFeeView) Total() int { return v.cache.len() }

// Students returns the full cached collection in server order.
func (v *StudentFeeView) Students() []models.Student { return v.cache.snapshot() }

// Filter returns the active filter criterion.
func (v *StudentFeeView) Filter() models.StudentFilter {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filter
}

// SetGrade narrows the view to a grade. An empty grade clears the predicate.
func (v *StudentFeeView) SetGrade(grade string) error {
	if grade != "" && !v.policy.Catalog().HasGrade(grade) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown grade "+grade)
	}
	v.mu.Lock()
	v.filter.Grade = grade
	v.mu.Unlock()
	return nil
}

// SetSearch narrows the view to admission numbers containing query.
func (v *StudentFeeView) SetSearch(query string) {
	v.mu.Lock()
	v.filter.AdmissionNumber = strings.TrimSpace(query)
	v.mu.Unlock()
}

func (v *StudentFeeView) ClearGrade() {
	v.mu.Lock()
	v.filter.Grade = ""
	v.mu.Unlock()
}

func (v *StudentFeeView) ClearSearch() {
	v.mu.Lock()
	v.filter.AdmissionNumber = ""
	v.mu.Unlock()
}

// ClearFilter drops both predicates.
func (v *StudentFeeView) ClearFilter() {
	v.mu.Lock()
	v.filter = models.StudentFilter{}
	v.mu.Unlock()
}

// Visible computes the filtered rows from the cache, preserving order.
func (v *StudentFeeView) Visible() []models.StudentRow {
	filter := v.Filter()
	students := v.cache.snapshot()
	rows := make([]models.StudentRow, 0, len(students))
	for _, s := range students {
		if filter.Matches(s.AdmissionNumber, s.Grade) {
			rows = append(rows, v.policy.StudentRow(s))
		}
	}
	return rows
}

// UpdateFee applies amount optimistically, then writes it to the fee service.
// A failed write restores the exact record as it was before the update.
// Cancelling ctx does not abort the write.
func (v *StudentFeeView) UpdateFee(ctx context.Context, id int64, amount int64) (models.StudentRow, error) {
	if amount < 0 {
		err := appErrors.Clone(appErrors.ErrValidation, "amount paid must not be negative")
		v.feed.Warning("update_fee", err.Message)
		return models.StudentRow{}, err
	}
	snapshot, ok := v.cache.find(id)
	if !ok {
		err := appErrors.Clone(appErrors.ErrNotFound, "student not found")
		v.feed.Error("update_fee", "Student not found")
		return models.StudentRow{}, err
	}

	v.cache.mutate(id, func(s *models.Student) { s.AmountPaid = models.Amount(amount) })

	// Detached: a dropped client must not roll back a write the fee service may have applied.
	updated, err := v.repo.PatchAmount(context.WithoutCancel(ctx), id, amount)
	if err != nil {
		v.cache.put(id, snapshot)
		v.metrics.RecordRollback(studentsView)
		v.feed.Error("update_fee", "Failed to update fee: "+appErrors.FromError(err).Message)
		v.logger.Warn("fee update reverted", zap.Int64("student_id", id), zap.Error(err))
		return v.policy.StudentRow(snapshot), err
	}
	if updated != nil && updated.ID != 0 {
		v.cache.put(id, *updated)
	}

	current, ok := v.cache.find(id)
	if !ok {
		return models.StudentRow{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	v.feed.Success("update_fee", "Fee updated successfully")
	return v.policy.StudentRow(current), nil
}

// CreateStudent registers a student and appends it to the cache with no payment.
func (v *StudentFeeView) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (models.StudentRow, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.MiddleName = strings.TrimSpace(req.MiddleName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.AdmissionNumber = strings.TrimSpace(req.AdmissionNumber)
	if err := v.validator.Struct(req); err != nil {
		v.feed.Warning("create", "All fields are required")
		return models.StudentRow{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	id, err := v.repo.Create(ctx, req)
	if err != nil {
		v.feed.Error("create", "Failed to add student: "+appErrors.FromError(err).Message)
		return models.StudentRow{}, err
	}

	student := req.ToStudent(id)
	v.cache.add(student)
	v.feed.Success("create", "Student added successfully")
	return v.policy.StudentRow(student), nil
}

// StageDelete marks a cached student for deletion without touching the cache.
func (v *StudentFeeView) StageDelete(id int64) (dto.StagedDelete, error) {
	student, ok := v.cache.find(id)
	if !ok {
		return dto.StagedDelete{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	candidate := dto.StagedDelete{ID: student.ID, DisplayName: student.FullName(), AdmissionNumber: student.AdmissionNumber}
	v.stage.stage(candidate)
	return candidate, nil
}

// StagedDelete returns the pending candidate, if any.
func (v *StudentFeeView) StagedDelete() (dto.StagedDelete, bool) {
	return v.stage.current()
}

// CancelDelete drops the pending candidate.
func (v *StudentFeeView) CancelDelete() {
	v.stage.cancel()
}

// ConfirmDelete deletes the staged student remotely, then from the cache.
func (v *StudentFeeView) ConfirmDelete(ctx context.Context) error {
	candidate, ok := v.stage.current()
	if !ok {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "missing student ID")
	}
	if err := v.repo.Delete(ctx, candidate.ID); err != nil {
		msg := appErrors.FromError(err).Message
		v.stage.fail(candidate.ID, msg)
		v.feed.Error("delete", "Failed to delete student: "+msg)
		return err
	}
	v.cache.remove(candidate.ID)
	v.stage.done(candidate.ID)
	v.feed.Success("delete", "Student deleted successfully")
	return nil
}

// Lookup finds a student by admission number and narrows the view to its grade.
func (v *StudentFeeView) Lookup(ctx context.Context, admission string) (*models.StudentRow, error) {
	admission = strings.TrimSpace(admission)
	if admission == "" {
		v.feed.Info("lookup", "Please enter an admission number.")
		return nil, appErrors.Clone(appErrors.ErrValidation, "admission number is required")
	}
	student, err := v.repo.FindByAdmission(ctx, admission)
	if err != nil {
		if repository.IsNotFound(err) {
			v.feed.Warning("lookup", "Student not found.")
		} else {
			v.feed.Error("lookup", "Failed to look up student: "+appErrors.FromError(err).Message)
		}
		return nil, err
	}
	v.mu.Lock()
	v.filter.Grade = student.Grade
	v.mu.Unlock()
	v.feed.Success("lookup", "Student found!")
	row := v.policy.StudentRow(*student)
	return &row, nil
}

// RecordPaymentUpdate sends an update_payment for an admission number.
func (v *StudentFeeView) RecordPaymentUpdate(ctx context.Context, admission string, req dto.UpdatePaymentRequest) (string, error) {
	admission = strings.TrimSpace(admission)
	if req.PaymentStatus == "" {
		req.PaymentStatus = defaultPaymentStatus
	}
	if admission == "" || v.validator.Struct(req) != nil {
		v.feed.Warning("payment", "Admission number, amount and date are required")
		return "", appErrors.Clone(appErrors.ErrValidation, "admission number, amount and date are required")
	}
	message, err := v.repo.UpdatePayment(ctx, admission, req)
	if err != nil {
		v.feed.Error("payment", "Failed to update payment")
		return "", err
	}
	if message == "" {
		message = "Payment updated successfully!"
	}
	v.feed.Success("payment", message)
	return message, nil
}

// RecordFeePayment posts a general fee payment for an admission number.
func (v *StudentFeeView) RecordFeePayment(ctx context.Context, admission string, req dto.FeePaymentRequest) (string, error) {
	admission = strings.TrimSpace(admission)
	if admission == "" || v.validator.Struct(req) != nil {
		v.feed.Warning("fee_payment", "Fill admission number, amount, and date")
		return "", appErrors.Clone(appErrors.ErrValidation, "admission number, amount and date are required")
	}
	message, err := v.repo.RecordFeePayment(ctx, admission, req)
	if err != nil {
		v.feed.Error("fee_payment", "Error recording fee payment")
		return "", err
	}
	if message == "" {
		message = "Fee payment recorded!"
	}
	v.feed.Success("fee_payment", message)
	return message, nil
}
