package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
	"github.com/noah-isme/lms-admin-api/pkg/response"
)

type sectionService interface {
	ListByModule(ctx context.Context, moduleID string, params query.Params) query.Result[query.Page[models.Section]]
	Get(ctx context.Context, id string) query.Result[*models.Section]
	Create(ctx context.Context, moduleID string, req models.SectionRequest) (*models.Section, error)
	Update(ctx context.Context, id string, req models.SectionRequest) (*models.Section, error)
	Delete(ctx context.Context, id string) error
}

// SectionHandler serves module sections.
type SectionHandler struct {
	service sectionService
}

// NewSectionHandler constructs a SectionHandler.
func NewSectionHandler(svc sectionService) *SectionHandler {
	return &SectionHandler{service: svc}
}

// ListByModule godoc
// @Summary List sections of a module
// @Tags Sections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param search query string false "Case-insensitive title search"
// @Param sort query string false "title, position or createdAt"
// @Param order query string false "asc or desc"
// @Success 200 {object} map[string]interface{}
// @Router /modules/{id}/sections [get]
func (h *SectionHandler) ListByModule(c *gin.Context) {
	response.Result(c, h.service.ListByModule(c.Request.Context(), c.Param("id"), listParams(c)))
}

// Get godoc
// @Summary Get section
// @Tags Sections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Section ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /sections/{id} [get]
func (h *SectionHandler) Get(c *gin.Context) {
	respondOne(c, h.service.Get(c.Request.Context(), c.Param("id")))
}

// Create godoc
// @Summary Add a section to a module
// @Tags Sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Param payload body models.SectionRequest true "Section payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /modules/{id}/sections [post]
func (h *SectionHandler) Create(c *gin.Context) {
	var req models.SectionRequest
	if !bindJSON(c, &req) {
		return
	}
	section, err := h.service.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, section)
}

// Update godoc
// @Summary Update section
// @Tags Sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Section ID"
// @Param payload body models.SectionRequest true "Section payload"
// @Success 200 {object} response.Envelope
// @Router /sections/{id} [put]
func (h *SectionHandler) Update(c *gin.Context) {
	var req models.SectionRequest
	if !bindJSON(c, &req) {
		return
	}
	section, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section)
}

// Delete godoc
// @Summary Delete section
// @Tags Sections
// @Security BearerAuth
// @Param id path string true "Section ID"
// @Success 204
// @Router /sections/{id} [delete]
func (h *SectionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
