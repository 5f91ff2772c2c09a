package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
	"github.com/noah-isme/lms-admin-api/internal/session"
	"github.com/noah-isme/lms-admin-api/pkg/jobs"
)

type actionLogRepository interface {
	List(ctx context.Context, params query.Params) query.Result[query.Page[models.ActionLog]]
	Create(ctx context.Context, entry *models.ActionLog) error
}

// ActionLogConfig sizes the background writer.
type ActionLogConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// ActionLogService records who did what. Writes go through a background queue
// so a slow insert never delays the request that triggered it.
type ActionLogService struct {
	repo   actionLogRepository
	queue  *jobs.Queue[models.ActionLog]
	logger *zap.Logger
	now    func() time.Time
}

// NewActionLogService constructs the service; call Start before recording.
func NewActionLogService(repo actionLogRepository, cfg ActionLogConfig, logger *zap.Logger) *ActionLogService {
	logger = nopIfNil(logger)
	svc := &ActionLogService{repo: repo, logger: logger, now: time.Now}
	svc.queue = jobs.NewQueue[models.ActionLog]("action_logs", svc.persist, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return svc
}

// Start launches the writer goroutines.
func (s *ActionLogService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop flushes pending entries and stops the writers.
func (s *ActionLogService) Stop() {
	s.queue.Stop()
}

// List returns one page of the action log.
func (s *ActionLogService) List(ctx context.Context, params query.Params) query.Result[query.Page[models.ActionLog]] {
	return s.repo.List(ctx, params)
}

// Record captures an action attributed to the session on ctx. Failures are
// logged, never returned.
func (s *ActionLogService) Record(ctx context.Context, action, entity string, entityID *string, description string) {
	client := session.ClientFrom(ctx)
	entry := models.ActionLog{
		UserID:      session.UserID(ctx),
		Action:      action,
		Entity:      entity,
		EntityID:    entityID,
		Description: description,
		IPAddress:   client.IP,
		UserAgent:   client.UserAgent,
		CreatedAt:   s.now().UTC(),
	}

	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 100*time.Millisecond)
	defer cancel()
	if err := s.queue.Enqueue(enqueueCtx, entry); err != nil {
		s.logger.Warn("action log queue unavailable, writing inline", zap.String("action", action), zap.Error(err))
		if err := s.persist(context.WithoutCancel(ctx), entry); err != nil {
			s.logger.Error("failed to record action", zap.String("action", action), zap.String("entity", entity), zap.Error(err))
		}
	}
}

func (s *ActionLogService) persist(ctx context.Context, entry models.ActionLog) error {
	return s.repo.Create(ctx, &entry)
}
