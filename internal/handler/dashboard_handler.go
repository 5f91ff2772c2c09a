package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-admin-api/internal/dto"
	"github.com/noah-isme/lms-admin-api/internal/middleware"
	"github.com/noah-isme/lms-admin-api/internal/query"
	"github.com/noah-isme/lms-admin-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context) (query.Result[dto.DashboardSummary], bool)
}

// DashboardHandler exposes the admin dashboard.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Summary godoc
// @Summary Admin dashboard
// @Description User totals by type and the most recent actions
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	res, cached := h.service.Summary(c.Request.Context())
	if !res.Failed() {
		middleware.SetCacheHit(c, cached)
	}
	response.Result(c, res)
}
