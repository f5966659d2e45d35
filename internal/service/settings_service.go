package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/fee-tracker-console/internal/models"
	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
)

type settingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// ThemeApplier receives the theme whenever it is loaded or changed.
type ThemeApplier func(theme models.Theme)

// TermListener receives the selected term whenever it changes.
type TermListener func(term string)

// SettingsService owns the theme, selected term and bearer credential.
type SettingsService struct {
	store       settingsStore
	catalog     models.Catalog
	defaultTerm string
	metrics     *MetricsService
	logger      *zap.Logger

	mu        sync.RWMutex
	theme     models.Theme
	term      string
	appliers  []ThemeApplier
	listeners []TermListener
}

// NewSettingsService constructs the service with light theme and the default term.
func NewSettingsService(store settingsStore, catalog models.Catalog, defaultTerm string, metrics *MetricsService, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultTerm == "" && len(catalog.Terms) > 0 {
		defaultTerm = catalog.Terms[0]
	}
	return &SettingsService{
		store:       store,
		catalog:     catalog,
		defaultTerm: defaultTerm,
		metrics:     metrics,
		logger:      logger,
		theme:       models.ThemeLight,
		term:        defaultTerm,
	}
}

// OnThemeChange registers an applier for theme changes.
func (s *SettingsService) OnThemeChange(fn ThemeApplier) {
	s.mu.Lock()
	s.appliers = append(s.appliers, fn)
	s.mu.Unlock()
}

// OnTermChange registers a listener for term changes.
func (s *SettingsService) OnTermChange(fn TermListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Load reads the persisted theme and term once. Missing or unknown values
// fall back to the defaults.
func (s *SettingsService) Load(ctx context.Context) error {
	theme := models.ThemeLight
	raw, ok, err := s.store.Get(ctx, models.SettingTheme)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read theme")
	}
	if ok && models.Theme(raw).Valid() {
		theme = models.Theme(raw)
	}

	term := s.defaultTerm
	raw, ok, err = s.store.Get(ctx, models.SettingSelectedTerm)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read selected term")
	}
	if ok && s.validTerm(raw) {
		term = raw
	}

	s.mu.Lock()
	s.theme = theme
	s.term = term
	appliers := append([]ThemeApplier(nil), s.appliers...)
	s.mu.Unlock()

	for _, apply := range appliers {
		apply(theme)
	}
	s.logger.Info("settings loaded", zap.String("theme", string(theme)), zap.String("term", term))
	return nil
}

func (s *SettingsService) Theme() models.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *SettingsService) Term() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.term
}

// Snapshot returns the current settings without exposing the credential.
func (s *SettingsService) Snapshot(ctx context.Context) (models.ConsoleSettings, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return models.ConsoleSettings{}, err
	}
	theme := s.Theme()
	return models.ConsoleSettings{
		Theme:     theme,
		BodyClass: theme.BodyClass(),
		Term:      s.Term(),
		HasToken:  token != "",
	}, nil
}

// SetTheme persists the theme, then applies it.
func (s *SettingsService) SetTheme(ctx context.Context, theme models.Theme) error {
	if !theme.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "theme must be dark or light")
	}
	if err := s.write(ctx, models.SettingTheme, string(theme)); err != nil {
		return err
	}

	s.mu.Lock()
	s.theme = theme
	appliers := append([]ThemeApplier(nil), s.appliers...)
	s.mu.Unlock()

	for _, apply := range appliers {
		apply(theme)
	}
	return nil
}

// ToggleTheme flips between dark and light.
func (s *SettingsService) ToggleTheme(ctx context.Context) (models.Theme, error) {
	next := s.Theme().Toggle()
	if err := s.SetTheme(ctx, next); err != nil {
		return s.Theme(), err
	}
	return next, nil
}

// SetTerm persists the selected term and notifies listeners.
func (s *SettingsService) SetTerm(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if !s.validTerm(term) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown term "+term)
	}
	if err := s.write(ctx, models.SettingSelectedTerm, term); err != nil {
		return err
	}

	s.mu.Lock()
	s.term = term
	listeners := append([]TermListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, notify := range listeners {
		notify(term)
	}
	return nil
}

// SetToken stores the bearer credential used for authenticated remote calls.
func (s *SettingsService) SetToken(ctx context.Context, token string) error {
	return s.write(ctx, models.SettingToken, strings.TrimSpace(token))
}

// Token returns the stored bearer credential, empty when unset.
func (s *SettingsService) Token(ctx context.Context) (string, error) {
	token, _, err := s.store.Get(ctx, models.SettingToken)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read token")
	}
	return token, nil
}

func (s *SettingsService) write(ctx context.Context, key, value string) error {
	err := s.store.Set(ctx, key, value)
	s.metrics.RecordSettingsWrite(key, err)
	if err != nil {
		s.logger.Error("settings write failed", zap.String("key", key), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save setting")
	}
	s.logger.Info("setting saved", zap.String("key", key))
	return nil
}

func (s *SettingsService) validTerm(term string) bool {
	if len(s.catalog.Terms) == 0 {
		return term != ""
	}
	return s.catalog.HasTerm(term)
}
