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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/lms-admin-api/api/swagger"
	"github.com/noah-isme/lms-admin-api/internal/handler"
	"github.com/noah-isme/lms-admin-api/internal/query"
	"github.com/noah-isme/lms-admin-api/internal/repository"
	"github.com/noah-isme/lms-admin-api/internal/router"
	"github.com/noah-isme/lms-admin-api/internal/service"
	"github.com/noah-isme/lms-admin-api/pkg/cache"
	"github.com/noah-isme/lms-admin-api/pkg/config"
	"github.com/noah-isme/lms-admin-api/pkg/database"
	"github.com/noah-isme/lms-admin-api/pkg/logger"
	"github.com/noah-isme/lms-admin-api/pkg/storage"
)

// @title LMS Admin API
// @version 1.0.0
// @description Administration and learning API for the staff learning platform
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if err := run(cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database, logr); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	store, err := storage.NewLocalStore(cfg.Storage.BaseDir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL)

	metrics := service.NewMetricsService()
	runner := query.NewRunner(db, query.RunnerConfig{
		Timeout:  cfg.Query.Timeout,
		MaxLimit: cfg.Query.MaxLimit,
		Logger:   logr.Named("query"),
		Metrics:  metrics,
	})

	branchRepo := repository.NewBranchRepository(db, runner)
	roleRepo := repository.NewRoleRepository(db, runner)
	moduleRepo := repository.NewModuleRepository(db, runner)
	sectionRepo := repository.NewSectionRepository(db, runner)
	lessonRepo := repository.NewLessonRepository(db, runner)
	userRepo := repository.NewUserRepository(db, runner)
	actionLogRepo := repository.NewActionLogRepository(db, runner)
	dashboardRepo := repository.NewDashboardRepository(runner)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, redisClient != nil)

	actionLogs := service.NewActionLogService(actionLogRepo, service.ActionLogConfig{
		Workers: cfg.ActionLog.Workers,
		Retries: cfg.ActionLog.Retries,
	}, logr)
	actionLogs.Start(ctx)
	defer actionLogs.Stop()

	authSvc := service.NewAuthService(userRepo, actionLogs, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	branchSvc := service.NewBranchService(branchRepo, actionLogs, cacheSvc, validate, logr)
	roleSvc := service.NewRoleService(roleRepo, actionLogs, cacheSvc, validate, logr)
	moduleSvc := service.NewModuleService(moduleRepo, roleRepo, actionLogs, cacheSvc, validate, logr)
	sectionSvc := service.NewSectionService(sectionRepo, moduleRepo, actionLogs, cacheSvc, validate, logr)
	lessonSvc := service.NewLessonService(lessonRepo, sectionRepo, store, actionLogs, cacheSvc, validate, logr)
	userSvc := service.NewUserService(userRepo, actionLogs, cacheSvc, validate, logr)
	contentSvc := service.NewLessonContentService(lessonRepo, store, signer, metrics, actionLogs, cacheSvc, service.LessonContentConfig{
		MaxUploadSize: cfg.Storage.MaxUploadSize,
		FilesPath:     cfg.APIPrefix + "/files",
	}, logr)
	exportSvc := service.NewExportService(userRepo, metrics, actionLogs, 0, logr)
	dashboardSvc := service.NewDashboardService(authSvc, dashboardRepo, cacheSvc, service.DashboardServiceConfig{
		CacheTTL:   cfg.Dashboard.CacheTTL,
		RecentLogs: cfg.Dashboard.RecentLogs,
	}, logr)

	checks := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		checks["redis"] = redisPinger{client: redisClient}
	}

	engine := router.New(router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Branches:   handler.NewBranchHandler(branchSvc),
		Roles:      handler.NewRoleHandler(roleSvc),
		Modules:    handler.NewModuleHandler(moduleSvc),
		Sections:   handler.NewSectionHandler(sectionSvc),
		Lessons:    handler.NewLessonHandler(lessonSvc, contentSvc),
		Users:      handler.NewUserHandler(userSvc, exportSvc),
		ActionLogs: handler.NewActionLogHandler(actionLogs),
		Dashboard:  handler.NewDashboardHandler(dashboardSvc),
		Learn:      handler.NewLearnHandler(authSvc, moduleSvc, sectionSvc, lessonSvc, contentSvc),
		Files:      handler.NewFileHandler(contentSvc),
		Metrics:    handler.NewMetricsHandler(metrics, checks),
	}, router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Logger:         logr,
		Tokens:         authSvc,
		Observer:       metrics,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
