package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-admin-api/internal/dto"
	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
)

const (
	dashboardCacheKey      = "dash:summary"
	noActiveSessionMessage = "no active session"
)

type sessionResolver interface {
	CurrentUser(ctx context.Context) (*models.JWTClaims, error)
}

type dashboardRepository interface {
	Summary(ctx context.Context, recent int) (dto.DashboardSummary, error)
}

type summaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL   time.Duration
	RecentLogs int
}

// DashboardService composes the admin dashboard summary.
type DashboardService struct {
	auth   sessionResolver
	repo   dashboardRepository
	cache  summaryCache
	logger *zap.Logger
	cfg    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService. cache may be nil.
func NewDashboardService(auth sessionResolver, repo dashboardRepository, cache summaryCache, cfg DashboardServiceConfig, logger *zap.Logger) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.RecentLogs <= 0 {
		cfg.RecentLogs = 5
	}
	return &DashboardService{auth: auth, repo: repo, cache: cache, logger: nopIfNil(logger), cfg: cfg}
}

// Summary returns the dashboard counts and recent activity. Anonymous callers
// are rejected before any data is read. The second return reports a cache hit.
func (s *DashboardService) Summary(ctx context.Context) (query.Result[dto.DashboardSummary], bool) {
	if _, err := s.auth.CurrentUser(ctx); err != nil {
		return query.Reject[dto.DashboardSummary](noActiveSessionMessage), false
	}

	if s.cache != nil {
		var cached dto.DashboardSummary
		if hit, _ := s.cache.Get(ctx, dashboardCacheKey, &cached); hit {
			if cached.RecentLogs == nil {
				cached.RecentLogs = []models.ActionLog{}
			}
			return query.Ok(cached), true
		}
	}

	summary, err := s.repo.Summary(ctx, s.cfg.RecentLogs)
	if err != nil {
		s.logger.Error("failed to build dashboard summary", zap.Error(err))
		return query.Fail[dto.DashboardSummary](err.Error()), false
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, dashboardCacheKey, summary, s.cfg.CacheTTL)
	}
	return query.Ok(summary), false
}
