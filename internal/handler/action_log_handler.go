package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
	"github.com/noah-isme/lms-admin-api/pkg/response"
)

type actionLogLister interface {
	List(ctx context.Context, params query.Params) query.Result[query.Page[models.ActionLog]]
}

// ActionLogHandler exposes the action log to admins.
type ActionLogHandler struct {
	logs actionLogLister
}

func NewActionLogHandler(logs actionLogLister) *ActionLogHandler {
	return &ActionLogHandler{logs: logs}
}

// List godoc
// @Summary List action logs
// @Tags Action Logs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param search query string false "Matches the description"
// @Param sort query string false "createdAt or action"
// @Param order query string false "asc or desc"
// @Param userIds query string false "Comma-separated user ids"
// @Param actions query string false "LOGIN, CREATE, UPDATE, DELETE, UPLOAD, EXPORT"
// @Param entities query string false "branch, role, module, section, lesson, user"
// @Success 200 {object} map[string]interface{}
// @Router /action-logs [get]
func (h *ActionLogHandler) List(c *gin.Context) {
	response.Result(c, h.logs.List(c.Request.Context(), listParams(c)))
}
