package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/fee-tracker-console/api/swagger"
	"github.com/noah-isme/fee-tracker-console/internal/handler"
	internalmiddleware "github.com/noah-isme/fee-tracker-console/internal/middleware"
	"github.com/noah-isme/fee-tracker-console/internal/repository"
	"github.com/noah-isme/fee-tracker-console/internal/service"
	"github.com/noah-isme/fee-tracker-console/pkg/cache"
	"github.com/noah-isme/fee-tracker-console/pkg/config"
	"github.com/noah-isme/fee-tracker-console/pkg/database"
	"github.com/noah-isme/fee-tracker-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/fee-tracker-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/fee-tracker-console/pkg/middleware/requestid"
	"github.com/noah-isme/fee-tracker-console/pkg/storage"
)

// @title Fee Tracker Console API
// @version 1.0.0
// @description Client state reconciler for the school fee and activity service
// @BasePath /api/v1
// @schemes http

type settingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()
	catalog := service.NewCatalog(cfg.Catalog)
	policy := service.NewFeePolicy(catalog)
	validate := validator.New()

	store, closeStore, err := openSettingsStore(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("settings store unavailable", "store", cfg.Settings.Store, "error", err)
	}
	defer closeStore()

	settingsSvc := service.NewSettingsService(store, catalog, cfg.Settings.DefaultTerm, metricsSvc, logr)
	theme := internalmiddleware.NewTheme()
	settingsSvc.OnThemeChange(theme.Apply)
	if err := settingsSvc.Load(ctx); err != nil {
		logr.Sugar().Fatalw("failed to load settings", "error", err)
	}

	client := repository.NewBackendClient(cfg.Backend, settingsSvc, metricsSvc, logr)
	studentRepo := repository.NewStudentFeeRepository(client)
	activityRepo := repository.NewActivityRepository(client)

	exports, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare exports dir", "dir", cfg.Exports.Dir, "error", err)
	}
	reports := service.NewReportService(studentRepo, policy, exports, logr, nil, nil, nil)
	reports.KeepArchives(cfg.Exports.Keep)
	reports.UseTerm(settingsSvc.Term())
	settingsSvc.OnTermChange(reports.UseTerm)

	registry := service.NewViewRegistry(studentRepo, activityRepo, policy, service.ViewRegistryConfig{
		MaxViews:           cfg.Console.MaxViews,
		NotificationBuffer: cfg.Console.NotificationBuffer,
	}, metricsSvc, validate, logr)

	metricsHandler := handler.NewMetricsHandler(metricsSvc, settingsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(internalmiddleware.Bearer())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(theme.Handler())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.RegisterViewRoutes(api, handler.NewStudentViewHandler(registry, reports), handler.NewActivityViewHandler(registry))

	catalogHandler := handler.NewCatalogHandler(catalog)
	api.GET("/catalog", catalogHandler.Get)

	reportHandler := handler.NewReportHandler(reports)
	api.GET("/reports/summary", reportHandler.Summary)
	api.GET("/reports/export", reportHandler.Export)

	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	api.GET("/settings", settingsHandler.Get)
	api.PUT("/settings/theme", settingsHandler.SetTheme)
	api.POST("/settings/theme/toggle", settingsHandler.ToggleTheme)
	api.PUT("/settings/term", settingsHandler.SetTerm)
	api.PUT("/settings/token", settingsHandler.SetToken)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "backend", cfg.Backend.BaseURL, "settings_store", cfg.Settings.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func openSettingsStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (settingsStore, func(), error) {
	noop := func() {}
	switch cfg.Settings.Store {
	case config.SettingsStoreRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewRedisSettingsRepository(client, cfg.Settings.RedisPrefix, logr), func() { _ = client.Close() }, nil
	case config.SettingsStorePostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		repo := repository.NewSettingsRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return repo, func() { _ = db.Close() }, nil
	case config.SettingsStoreMemory:
		return repository.NewMemorySettingsRepository(), noop, nil
	default:
		dir, err := storage.NewLocalStorage(cfg.Settings.FileDir)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewFileSettingsRepository(dir), noop, nil
	}
}
