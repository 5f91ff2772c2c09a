package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
	"github.com/noah-isme/lms-admin-api/pkg/response"
)

type profileLoader interface {
	Me(ctx context.Context) (*models.UserInfo, error)
}

type learnModules interface {
	List(ctx context.Context, params query.Params) query.Result[query.Page[models.Module]]
	ListForRole(ctx context.Context, roleID *string, params query.Params) query.Result[query.Page[models.Module]]
}

type learnSections interface {
	ListByModule(ctx context.Context, moduleID string, params query.Params) query.Result[query.Page[models.Section]]
}

type learnLessons interface {
	ListBySection(ctx context.Context, sectionID string, params query.Params) query.Result[query.Page[models.Lesson]]
}

type lessonViewer interface {
	View(ctx context.Context, lessonID string) query.Result[*models.LessonView]
}

// LearnHandler serves the staff-facing learning area.
type LearnHandler struct {
	profiles profileLoader
	modules  learnModules
	sections learnSections
	lessons  learnLessons
	viewer   lessonViewer
}

// NewLearnHandler constructs a LearnHandler.
func NewLearnHandler(profiles profileLoader, modules learnModules, sections learnSections, lessons learnLessons, viewer lessonViewer) *LearnHandler {
	return &LearnHandler{profiles: profiles, modules: modules, sections: sections, lessons: lessons, viewer: viewer}
}

// Modules godoc
// @Summary My modules
// @Description Modules for the caller's role. Admins see every module.
// @Tags Learning
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param search query string false "Case-insensitive title search"
// @Success 200 {object} map[string]interface{}
// @Router /learn/modules [get]
func (h *LearnHandler) Modules(c *gin.Context) {
	profile, err := h.profiles.Me(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	params := listParams(c)
	if profile.Type == models.UserTypeAdmin {
		response.Result(c, h.modules.List(c.Request.Context(), params))
		return
	}
	response.Result(c, h.modules.ListForRole(c.Request.Context(), profile.RoleID, params))
}

// Sections godoc
// @Summary Sections of a module
// @Tags Learning
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Success 200 {object} map[string]interface{}
// @Router /learn/modules/{id}/sections [get]
func (h *LearnHandler) Sections(c *gin.Context) {
	response.Result(c, h.sections.ListByModule(c.Request.Context(), c.Param("id"), listParams(c)))
}

// Lessons godoc
// @Summary Lessons of a section
// @Tags Learning
// @Produce json
// @Security BearerAuth
// @Param id path string true "Section ID"
// @Success 200 {object} map[string]interface{}
// @Router /learn/sections/{id}/lessons [get]
func (h *LearnHandler) Lessons(c *gin.Context) {
	response.Result(c, h.lessons.ListBySection(c.Request.Context(), c.Param("id"), listParams(c)))
}

// Lesson godoc
// @Summary Open a lesson
// @Description Includes a short-lived download URL when the lesson has uploaded content
// @Tags Learning
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /learn/lessons/{id} [get]
func (h *LearnHandler) Lesson(c *gin.Context) {
	respondOne(c, h.viewer.View(c.Request.Context(), c.Param("id")))
}
