package service

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
)

const defaultMaxViews = 256

// ViewRegistryConfig bounds the registry.
type ViewRegistryConfig struct {
	MaxViews           int
	NotificationBuffer int
}

// ViewRegistry tracks mounted views by id. Views never share state; two views
// of the same collection may disagree until each is reloaded.
type ViewRegistry struct {
	studentRepo  studentFeeRepository
	activityRepo activityRepository
	policy       FeePolicy
	cfg          ViewRegistryConfig
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger

	mu         sync.RWMutex
	students   map[string]*StudentFeeView
	activities map[string]*ActivityView
}

// NewViewRegistry constructs an empty registry.
func NewViewRegistry(studentRepo studentFeeRepository, activityRepo activityRepository, policy FeePolicy, cfg ViewRegistryConfig, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ViewRegistry {
	if cfg.MaxViews <= 0 {
		cfg.MaxViews = defaultMaxViews
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewRegistry{
		studentRepo:  studentRepo,
		activityRepo: activityRepo,
		policy:       policy,
		cfg:          cfg,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		students:     make(map[string]*StudentFeeView),
		activities:   make(map[string]*ActivityView),
	}
}

// MountStudents creates a student fee view and performs its initial load. A
// failed load still mounts the view; the failure is reported through the
// returned error and the view's notifications.
func (r *ViewRegistry) MountStudents(ctx context.Context) (*StudentFeeView, error) {
	id := uuid.NewString()
	view := NewStudentFeeView(id, r.studentRepo, r.policy, NewNotificationFeed(r.cfg.NotificationBuffer, r.logger), r.metrics, r.validator, r.logger)

	r.mu.Lock()
	if r.countLocked() >= r.cfg.MaxViews {
		r.mu.Unlock()
		return nil, appErrors.ErrTooManyViews
	}
	r.students[id] = view
	r.publishLocked()
	r.mu.Unlock()

	r.logger.Info("view mounted", zap.String("view", studentsView), zap.String("view_id", id))
	return view, view.Load(ctx)
}

// MountActivities creates an activity view and performs its initial load.
func (r *ViewRegistry) MountActivities(ctx context.Context) (*ActivityView, error) {
	id := uuid.NewString()
	view := NewActivityView(id, r.activityRepo, r.policy, NewNotificationFeed(r.cfg.NotificationBuffer, r.logger), r.validator, r.logger)

	r.mu.Lock()
	if r.countLocked() >= r.cfg.MaxViews {
		r.mu.Unlock()
		return nil, appErrors.ErrTooManyViews
	}
	r.activities[id] = view
	r.publishLocked()
	r.mu.Unlock()

	r.logger.Info("view mounted", zap.String("view", activitiesView), zap.String("view_id", id))
	return view, view.Load(ctx)
}

// Students returns a mounted student fee view.
func (r *ViewRegistry) Students(id string) (*StudentFeeView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	view, ok := r.students[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "view not found")
	}
	return view, nil
}

// Activities returns a mounted activity view.
func (r *ViewRegistry) Activities(id string) (*ActivityView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	view, ok := r.activities[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "view not found")
	}
	return view, nil
}

// UnmountStudents discards a student fee view and its cache.
func (r *ViewRegistry) UnmountStudents(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[id]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "view not found")
	}
	delete(r.students, id)
	r.publishLocked()
	return nil
}

// UnmountActivities discards an activity view and its cache.
func (r *ViewRegistry) UnmountActivities(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.activities[id]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "view not found")
	}
	delete(r.activities, id)
	r.publishLocked()
	return nil
}

// Count is the number of mounted views of any kind.
func (r *ViewRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countLocked()
}

func (r *ViewRegistry) countLocked() int {
	return len(r.students) + len(r.activities)
}

func (r *ViewRegistry) publishLocked() {
	r.metrics.SetMountedViews(r.countLocked())
}
