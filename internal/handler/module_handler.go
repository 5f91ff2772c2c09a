package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
	"github.com/noah-isme/lms-admin-api/pkg/response"
)

type moduleService interface {
	List(ctx context.Context, params query.Params) query.Result[query.Page[models.Module]]
	Get(ctx context.Context, id string) query.Result[*models.Module]
	Create(ctx context.Context, req models.ModuleRequest) (*models.Module, error)
	Update(ctx context.Context, id string, req models.ModuleRequest) (*models.Module, error)
	Delete(ctx context.Context, id string) error
}

// ModuleHandler serves the module admin endpoints.
type ModuleHandler struct {
	service moduleService
}

// NewModuleHandler constructs a ModuleHandler.
func NewModuleHandler(svc moduleService) *ModuleHandler {
	return &ModuleHandler{service: svc}
}

// List godoc
// @Summary List modules
// @Tags Modules
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param search query string false "Case-insensitive search"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Param roleIds query string false "Comma-separated role ids"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /modules [get]
func (h *ModuleHandler) List(c *gin.Context) {
	response.Result(c, h.service.List(c.Request.Context(), listParams(c)))
}

// Get godoc
// @Summary Get module
// @Tags Modules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /modules/{id} [get]
func (h *ModuleHandler) Get(c *gin.Context) {
	respondOne(c, h.service.Get(c.Request.Context(), c.Param("id")))
}

// Create godoc
// @Summary Create module
// @Tags Modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ModuleRequest true "Module payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /modules [post]
func (h *ModuleHandler) Create(c *gin.Context) {
	var req models.ModuleRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Update module
// @Tags Modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Param payload body models.ModuleRequest true "Module payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /modules/{id} [put]
func (h *ModuleHandler) Update(c *gin.Context) {
	var req models.ModuleRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete module
// @Tags Modules
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /modules/{id} [delete]
func (h *ModuleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
