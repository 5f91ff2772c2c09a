package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
	"github.com/noah-isme/lms-admin-api/pkg/response"
)

type branchService interface {
	List(ctx context.Context, params query.Params) query.Result[query.Page[models.Branch]]
	Get(ctx context.Context, id string) query.Result[*models.Branch]
	Create(ctx context.Context, req models.BranchRequest) (*models.Branch, error)
	Update(ctx context.Context, id string, req models.BranchRequest) (*models.Branch, error)
	Delete(ctx context.Context, id string) error
}

// BranchHandler serves the branch admin endpoints.
type BranchHandler struct {
	service branchService
}

// NewBranchHandler constructs a BranchHandler.
func NewBranchHandler(svc branchService) *BranchHandler {
	return &BranchHandler{service: svc}
}

// List godoc
// @Summary List branches
// @Tags Branches
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param search query string false "Case-insensitive search"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	response.Result(c, h.service.List(c.Request.Context(), listParams(c)))
}

// Get godoc
// @Summary Get branch
// @Tags Branches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Branch ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /branches/{id} [get]
func (h *BranchHandler) Get(c *gin.Context) {
	respondOne(c, h.service.Get(c.Request.Context(), c.Param("id")))
}

// Create godoc
// @Summary Create branch
// @Tags Branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.BranchRequest true "Branch payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /branches [post]
func (h *BranchHandler) Create(c *gin.Context) {
	var req models.BranchRequest
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
// @Summary Update branch
// @Tags Branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Branch ID"
// @Param payload body models.BranchRequest true "Branch payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /branches/{id} [put]
func (h *BranchHandler) Update(c *gin.Context) {
	var req models.BranchRequest
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
// @Summary Delete branch
// @Tags Branches
// @Security BearerAuth
// @Param id path string true "Branch ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /branches/{id} [delete]
func (h *BranchHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
