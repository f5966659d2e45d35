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
	activitiesView = "activities"

	defaultActivityPaymentStatus = "pending"
)

type activityRepository interface {
	List(ctx context.Context) ([]models.Activity, error)
	FindStudent(ctx context.Context, admission string) (*models.StudentActivities, error)
	UpdatePayment(ctx context.Context, admission string, req dto.UpdateActivityPaymentRequest) (string, error)
	RecordPayment(ctx context.Context, admission string, req dto.RecordActivityPaymentRequest) (string, error)
	Delete(ctx context.Context, id int64) error
}

// ActivityView is the state container behind one mounted activity page.
type ActivityView struct {
	id        string
	repo      activityRepository
	policy    FeePolicy
	feed      *NotificationFeed
	validator *validator.Validate
	logger    *zap.Logger

	cache  *viewCache[models.Activity]
	stage  deleteStage
	mu     sync.RWMutex
	filter models.StudentFilter
}

// NewActivityView constructs an empty, unloaded view.
func NewActivityView(id string, repo activityRepository, policy FeePolicy, feed *NotificationFeed, validate *validator.Validate, logger *zap.Logger) *ActivityView {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if feed == nil {
		feed = NewNotificationFeed(0, logger)
	}
	return &ActivityView{
		id:        id,
		repo:      repo,
		policy:    policy,
		feed:      feed,
		validator: validate,
		logger:    logger.With(zap.String("view", activitiesView), zap.String("view_id", id)),
		cache: newViewCache(
			func(a models.Activity) int64 { return a.ID },
			func(a models.Activity) models.Activity { return a.Clone() },
		),
	}
}

func (v *ActivityView) ID() string { return v.id }

func (v *ActivityView) Notifications() *NotificationFeed { return v.feed }

// Load replaces the cache with one read of the full activity collection.
func (v *ActivityView) Load(ctx context.Context) error {
	activities, err := v.repo.List(ctx)
	if err != nil {
		v.cache.reset()
		v.feed.Error("load", "Failed to load activities: "+appErrors.FromError(err).Message)
		return err
	}
	v.cache.replace(activities)
	v.logger.Debug("activities loaded", zap.Int("count", len(activities)))
	return nil
}

func (v *ActivityView) Loaded() bool { return v.cache.isLoaded() }

func (v *ActivityView) Total() int { return v.cache.len() }

func (v *ActivityView) Filter() models.StudentFilter {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filter
}

// SetGrade narrows the view to a grade. An empty grade clears the predicate.
func (v *ActivityView) SetGrade(grade string) error {
	if grade != "" && !v.policy.Catalog().HasGrade(grade) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown grade "+grade)
	}
	v.mu.Lock()
	v.filter.Grade = grade
	v.mu.Unlock()
	return nil
}

func (v *ActivityView) SetSearch(query string) {
	v.mu.Lock()
	v.filter.AdmissionNumber = strings.TrimSpace(query)
	v.mu.Unlock()
}

func (v *ActivityView) ClearGrade() {
	v.mu.Lock()
	v.filter.Grade = ""
	v.mu.Unlock()
}

func (v *ActivityView) ClearSearch() {
	v.mu.Lock()
	v.filter.AdmissionNumber = ""
	v.mu.Unlock()
}

func (v *ActivityView) ClearFilter() {
	v.mu.Lock()
	v.filter = models.StudentFilter{}
	v.mu.Unlock()
}

// Visible computes the filtered rows with their derived fee and deficit.
func (v *ActivityView) Visible() []models.ActivityRow {
	filter := v.Filter()
	activities := v.cache.snapshot()
	rows := make([]models.ActivityRow, 0, len(activities))
	for _, a := range activities {
		if filter.Matches(a.AdmissionNumber, a.Grade) {
			rows = append(rows, v.policy.ActivityRow(a))
		}
	}
	return rows
}

// LookupStudent finds a student's activities and narrows the view to its grade.
func (v *ActivityView) LookupStudent(ctx context.Context, admission string) (*models.StudentActivities, error) {
	admission = strings.TrimSpace(admission)
	if admission == "" {
		v.feed.Info("lookup", "Please enter an admission number.")
		return nil, appErrors.Clone(appErrors.ErrValidation, "admission number is required")
	}
	student, err := v.repo.FindStudent(ctx, admission)
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
	return student, nil
}

// UpdatePayment sets the paid amount of a catalog activity for a student.
func (v *ActivityView) UpdatePayment(ctx context.Context, admission string, req dto.UpdateActivityPaymentRequest) (string, error) {
	admission = strings.TrimSpace(admission)
	if admission == "" || v.validator.Struct(req) != nil {
		v.feed.Warning("payment", "All fields including activity are required.")
		return "", appErrors.Clone(appErrors.ErrValidation, "admission number, activity and amount are required")
	}
	activity, ok := v.policy.Catalog().ActivityByID(req.ActivityID)
	if !ok {
		v.feed.Error("payment", "Selected activity not found.")
		return "", appErrors.Clone(appErrors.ErrValidation, "selected activity not found")
	}
	req.ActivityName = activity.Name

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

// RecordPayment enrolls a student in a catalog activity with a first payment.
func (v *ActivityView) RecordPayment(ctx context.Context, admission string, req dto.RecordActivityPaymentRequest) (string, error) {
	admission = strings.TrimSpace(admission)
	if admission == "" || v.validator.Struct(req) != nil {
		v.feed.Warning("activity_payment", "Fill all activity fields")
		return "", appErrors.Clone(appErrors.ErrValidation, "admission number, activity and amount are required")
	}
	if _, ok := v.policy.Catalog().ActivityByID(req.ActivityID); !ok {
		v.feed.Error("activity_payment", "Selected activity not found.")
		return "", appErrors.Clone(appErrors.ErrValidation, "selected activity not found")
	}
	if req.PaymentStatus == "" {
		req.PaymentStatus = defaultActivityPaymentStatus
	}

	message, err := v.repo.RecordPayment(ctx, admission, req)
	if err != nil {
		v.feed.Error("activity_payment", "Error adding activity payment")
		return "", err
	}
	if message == "" {
		message = "Activity payment saved!"
	}
	v.feed.Success("activity_payment", message)
	return message, nil
}

// StageDelete marks a cached activity line for deletion.
func (v *ActivityView) StageDelete(id int64) (dto.StagedDelete, error) {
	activity, ok := v.cache.find(id)
	if !ok {
		return dto.StagedDelete{}, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
	}
	name := activity.FullName()
	if name == "" {
		name = activity.ActivityName
	}
	candidate := dto.StagedDelete{ID: activity.ID, DisplayName: name, AdmissionNumber: activity.AdmissionNumber}
	v.stage.stage(candidate)
	return candidate, nil
}

func (v *ActivityView) StagedDelete() (dto.StagedDelete, bool) {
	return v.stage.current()
}

func (v *ActivityView) CancelDelete() {
	v.stage.cancel()
}

// ConfirmDelete deletes the staged activity line remotely, then from the cache.
func (v *ActivityView) ConfirmDelete(ctx context.Context) error {
	candidate, ok := v.stage.current()
	if !ok {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "missing activity ID")
	}
	if err := v.repo.Delete(ctx, candidate.ID); err != nil {
		msg := appErrors.FromError(err).Message
		v.stage.fail(candidate.ID, msg)
		v.feed.Error("delete", "Failed to delete activity: "+msg)
		return err
	}
	v.cache.remove(candidate.ID)
	v.stage.done(candidate.ID)
	v.feed.Success("delete", "Activity deleted successfully")
	return nil
}
