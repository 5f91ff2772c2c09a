package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
	appErrors "github.com/noah-isme/lms-admin-api/pkg/errors"
	"github.com/noah-isme/lms-admin-api/pkg/storage"
)

const defaultMaxUploadSize int64 = 200 << 20

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// allowedContent lists the media types accepted per lesson content type. TEXT
// lessons carry their body inline and take no upload.
var allowedContent = map[models.ContentType]map[string]bool{
	models.ContentVideo: {
		"video/mp4":       true,
		"video/webm":      true,
		"video/quicktime": true,
	},
	models.ContentDocument: {
		"application/pdf": true,
		"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true,
	},
}

type lessonContentRepository interface {
	FindByID(ctx context.Context, id string) query.Result[*models.Lesson]
	SetContentPath(ctx context.Context, id, path string) error
}

type urlSigner interface {
	Sign(subject, objectPath string) (storage.SignedToken, error)
	Verify(token string) (storage.TokenClaims, error)
}

// LessonContentConfig tunes uploads and download links.
type LessonContentConfig struct {
	MaxUploadSize int64
	// FilesPath is the public route prefix download tokens are appended to.
	FilesPath string
}

// ContentUpload is one file received for a lesson.
type ContentUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// LessonContentService stores lesson files and hands out signed links to them.
type LessonContentService struct {
	lessons lessonContentRepository
	store   storage.ObjectStore
	signer  urlSigner
	metrics *MetricsService
	hooks   mutations
	logger  *zap.Logger
	cfg     LessonContentConfig
}

// NewLessonContentService constructs a LessonContentService.
func NewLessonContentService(lessons lessonContentRepository, store storage.ObjectStore, signer urlSigner, metrics *MetricsService, logs actionRecorder, cache cacheInvalidator, cfg LessonContentConfig, logger *zap.Logger) *LessonContentService {
	logger = nopIfNil(logger)
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = defaultMaxUploadSize
	}
	cfg.FilesPath = strings.TrimRight(cfg.FilesPath, "/")
	return &LessonContentService{
		lessons: lessons,
		store:   store,
		signer:  signer,
		metrics: metrics,
		hooks:   mutations{logs: logs, cache: cache, logger: logger},
		logger:  logger,
		cfg:     cfg,
	}
}

// MaxUploadSize is the largest accepted upload in bytes.
func (s *LessonContentService) MaxUploadSize() int64 {
	return s.cfg.MaxUploadSize
}

// Upload stores file as the content of lessonID, replacing any previous file.
// The previous object is only removed once the new one is in place.
func (s *LessonContentService) Upload(ctx context.Context, lessonID string, file ContentUpload) (*models.Lesson, error) {
	lesson, err := existing(s.lessons.FindByID(ctx, lessonID), "lesson")
	if err != nil {
		return nil, err
	}

	allowed, ok := allowedContent[lesson.ContentType]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s lessons do not accept uploads", strings.ToLower(string(lesson.ContentType))))
	}
	if file.Size > s.cfg.MaxUploadSize {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxUploadSize))
	}
	mediaType := detectMediaType(file)
	if !allowed[mediaType] {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMedia, fmt.Sprintf("%s is not accepted for %s lessons", mediaType, strings.ToLower(string(lesson.ContentType))))
	}

	objectPath := path.Join("lessons", lesson.ID, safeFilename(file.Filename))
	body := io.LimitReader(file.Body, s.cfg.MaxUploadSize+1)
	if err := s.store.Upload(ctx, objectPath, body, storage.UploadOptions{ContentType: mediaType, Upsert: true}); err != nil {
		s.metrics.RecordUpload(false)
		s.logger.Error("lesson content upload failed", zap.String("lesson_id", lesson.ID), zap.String("path", objectPath), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpload.Code, appErrors.ErrUpload.Status, appErrors.ErrUpload.Message)
	}
	s.metrics.RecordUpload(true)

	if err := s.lessons.SetContentPath(ctx, lesson.ID, objectPath); err != nil {
		return nil, writeError(err, "lesson", "update")
	}

	previous := lesson.ContentPath
	lesson.ContentPath = &objectPath
	if previous != nil && *previous != objectPath {
		if err := s.store.Remove(ctx, *previous); err != nil {
			s.logger.Warn("failed to remove replaced lesson content", zap.String("path", *previous), zap.Error(err))
		}
	}

	s.hooks.done(ctx, models.ActionUpload, models.EntityLesson, lesson.ID, fmt.Sprintf("uploaded %s for lesson %s", path.Base(objectPath), lesson.Title))
	return lesson, nil
}

// View returns the lesson with a signed link to its content, or nil data when
// the lesson does not exist.
func (s *LessonContentService) View(ctx context.Context, lessonID string) query.Result[*models.LessonView] {
	res := s.lessons.FindByID(ctx, lessonID)
	lesson, ok := res.Data()
	if !ok || lesson == nil {
		return query.Map(res, func(*models.Lesson) *models.LessonView { return nil })
	}

	view := &models.LessonView{Lesson: *lesson}
	if lesson.ContentPath != nil {
		token, err := s.signer.Sign(lesson.ID, *lesson.ContentPath)
		if err != nil {
			s.logger.Error("failed to sign lesson content url", zap.String("lesson_id", lesson.ID), zap.Error(err))
			return query.Fail[*models.LessonView]("failed to sign content url")
		}
		url := s.cfg.FilesPath + "/" + token.Token
		view.ContentURL = &url
	}
	return query.Ok(view)
}

// Open resolves a download token to the stored object. The caller closes the
// returned reader.
func (s *LessonContentService) Open(ctx context.Context, token string) (io.ReadCloser, storage.ObjectInfo, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, storage.ObjectInfo{}, appErrors.Clone(appErrors.ErrForbidden, "download link expired")
		}
		return nil, storage.ObjectInfo{}, appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}
	reader, info, err := s.store.Open(ctx, claims.Path)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, appErrors.Clone(appErrors.ErrNotFound, "content not found")
		}
		return nil, storage.ObjectInfo{}, appErrors.Internal(err, "failed to open content")
	}
	return reader, info, nil
}

func detectMediaType(file ContentUpload) string {
	if file.ContentType != "" {
		if mediaType, _, err := mime.ParseMediaType(file.ContentType); err == nil && mediaType != "application/octet-stream" {
			return mediaType
		}
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(file.Filename))); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	return "application/octet-stream"
}

func safeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "content"
	}
	return base
}
