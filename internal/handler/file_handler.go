package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-admin-api/pkg/response"
	"github.com/noah-isme/lms-admin-api/pkg/storage"
)

type contentOpener interface {
	Open(ctx context.Context, token string) (io.ReadCloser, storage.ObjectInfo, error)
}

// FileHandler streams lesson content behind signed tokens.
type FileHandler struct {
	content contentOpener
}

// NewFileHandler constructs a FileHandler.
func NewFileHandler(content contentOpener) *FileHandler {
	return &FileHandler{content: content}
}

// Download godoc
// @Summary Download lesson content
// @Description The token comes from the contentUrl of a lesson and expires
// @Tags Files
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /files/{token} [get]
func (h *FileHandler) Download(c *gin.Context) {
	reader, info, err := h.content.Open(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer reader.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, info.Size, contentType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", path.Base(info.Path)),
		"Cache-Control":       "private, max-age=60",
	})
}
