package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
	"github.com/noah-isme/lms-admin-api/internal/service"
	appErrors "github.com/noah-isme/lms-admin-api/pkg/errors"
	"github.com/noah-isme/lms-admin-api/pkg/response"
)

// multipartOverhead covers form boundaries and headers around the file part.
const multipartOverhead = 1 << 20

type lessonService interface {
	ListBySection(ctx context.Context, sectionID string, params query.Params) query.Result[query.Page[models.Lesson]]
	Get(ctx context.Context, id string) query.Result[*models.Lesson]
	Create(ctx context.Context, sectionID string, req models.LessonRequest) (*models.Lesson, error)
	Update(ctx context.Context, id string, req models.LessonRequest) (*models.Lesson, error)
	Delete(ctx context.Context, id string) error
}

type lessonUploader interface {
	Upload(ctx context.Context, lessonID string, file service.ContentUpload) (*models.Lesson, error)
	MaxUploadSize() int64
}

// LessonHandler serves lesson management and content uploads.
type LessonHandler struct {
	service lessonService
	content lessonUploader
}

// NewLessonHandler constructs a LessonHandler.
func NewLessonHandler(svc lessonService, content lessonUploader) *LessonHandler {
	return &LessonHandler{service: svc, content: content}
}

// ListBySection godoc
// @Summary List lessons of a section
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Section ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param search query string false "Case-insensitive title search"
// @Param sort query string false "title, position, durationMinutes or createdAt"
// @Param order query string false "asc or desc"
// @Param contentTypes query string false "VIDEO, DOCUMENT or TEXT (comma-separated)"
// @Success 200 {object} map[string]interface{}
// @Router /sections/{id}/lessons [get]
func (h *LessonHandler) ListBySection(c *gin.Context) {
	response.Result(c, h.service.ListBySection(c.Request.Context(), c.Param("id"), listParams(c)))
}

// Get godoc
// @Summary Get lesson
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c *gin.Context) {
	respondOne(c, h.service.Get(c.Request.Context(), c.Param("id")))
}

// Create godoc
// @Summary Add a lesson to a section
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Section ID"
// @Param payload body models.LessonRequest true "Lesson payload"
// @Success 201 {object} response.Envelope
// @Router /sections/{id}/lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	var req models.LessonRequest
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.service.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Update godoc
// @Summary Update lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Param payload body models.LessonRequest true "Lesson payload"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [put]
func (h *LessonHandler) Update(c *gin.Context) {
	var req models.LessonRequest
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson)
}

// Delete godoc
// @Summary Delete lesson and its content
// @Tags Lessons
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Success 204
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadContent godoc
// @Summary Upload lesson content
// @Description Stores a video or document for the lesson, replacing the previous file once the new one is written.
// @Tags Lessons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Param file formData file true "Content file"
// @Success 200 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /lessons/{id}/content [post]
func (h *LessonHandler) UploadContent(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.content.MaxUploadSize()+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.Clone(appErrors.ErrPayloadTooLarge, "file too large"))
			return
		}
		response.Error(c, appErrors.Invalid(err, "multipart field \"file\" is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to read upload"))
		return
	}
	defer file.Close()

	lesson, err := h.content.Upload(c.Request.Context(), c.Param("id"), service.ContentUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson)
}
