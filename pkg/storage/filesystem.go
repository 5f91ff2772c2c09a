package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrObjectNotFound is returned by Open when nothing is stored at a path.
	ErrObjectNotFound = errors.New("object not found")
	// ErrObjectExists is returned by Upload when Upsert is off and the path is taken.
	ErrObjectExists = errors.New("object already exists")
	// ErrInvalidPath rejects absolute paths and paths escaping the store root.
	ErrInvalidPath = errors.New("invalid object path")
)

// UploadOptions tunes a single upload.
type UploadOptions struct {
	ContentType string
	// Upsert replaces an existing object instead of failing with ErrObjectExists.
	Upsert bool
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Path        string
	Size        int64
	ContentType string
	ModifiedAt  time.Time
}

// ObjectStore is the object storage collaborator used for lesson content.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, content io.Reader, opts UploadOptions) error
	Remove(ctx context.Context, objectPath string) error
	Open(ctx context.Context, objectPath string) (io.ReadCloser, ObjectInfo, error)
}

// LocalStore persists objects on disk under a base directory.
type LocalStore struct {
	baseDir string
}

var _ ObjectStore = (*LocalStore)(nil)

// NewLocalStore ensures the base directory exists and returns a handle.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if baseDir == "" {
		baseDir = "./storage"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Upload streams content into a temporary sibling of the target and renames it
// into place once fully written. A failed upload leaves any previous object
// untouched.
func (s *LocalStore) Upload(ctx context.Context, objectPath string, content io.Reader, opts UploadOptions) error {
	target, err := s.resolve(objectPath)
	if err != nil {
		return err
	}
	if !opts.Upsert {
		if _, err := os.Stat(target); err == nil {
			return ErrObjectExists
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("prepare object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, &contextReader{ctx: ctx, r: content}); err != nil {
		return fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close object: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("commit object: %w", err)
	}
	committed = true
	return nil
}

// Remove deletes an object. Removing a missing object is not an error.
func (s *LocalStore) Remove(_ context.Context, objectPath string) error {
	target, err := s.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// Open returns a read handle and metadata for the stored object.
func (s *LocalStore) Open(_ context.Context, objectPath string) (io.ReadCloser, ObjectInfo, error) {
	target, err := s.resolve(objectPath)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	file, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ObjectInfo{}, ErrObjectNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("open object: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, ObjectInfo{}, fmt.Errorf("stat object: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(target))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return file, ObjectInfo{
		Path:        objectPath,
		Size:        stat.Size(),
		ContentType: contentType,
		ModifiedAt:  stat.ModTime(),
	}, nil
}

func (s *LocalStore) resolve(objectPath string) (string, error) {
	if objectPath == "" || strings.HasPrefix(objectPath, "/") || strings.Contains(objectPath, "\\") {
		return "", ErrInvalidPath
	}
	clean := path.Clean(objectPath)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), nil
}

// contextReader stops a copy once ctx is cancelled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
