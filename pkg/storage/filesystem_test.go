package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct {
	prefix []byte
	done   bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.done {
		f.done = true
		return copy(p, f.prefix), nil
	}
	return 0, errors.New("connection dropped")
}

func readAll(t *testing.T, store *LocalStore, name string) string {
	t.Helper()
	rc, _, err := store.Open(context.Background(), name)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(body)
}

func TestUploadAndOpen(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	err = store.Upload(context.Background(), "lessons/l1/notes.pdf", strings.NewReader("hello"), UploadOptions{ContentType: "application/pdf"})
	require.NoError(t, err)

	rc, info, err := store.Open(context.Background(), "lessons/l1/notes.pdf")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "application/pdf", info.ContentType)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "hello", string(body))
}

func TestUploadWithoutUpsertRefusesOverwrite(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Upload(context.Background(), "a.txt", strings.NewReader("one"), UploadOptions{}))
	err = store.Upload(context.Background(), "a.txt", strings.NewReader("two"), UploadOptions{})
	assert.ErrorIs(t, err, ErrObjectExists)
	assert.Equal(t, "one", readAll(t, store, "a.txt"))

	require.NoError(t, store.Upload(context.Background(), "a.txt", strings.NewReader("two"), UploadOptions{Upsert: true}))
	assert.Equal(t, "two", readAll(t, store, "a.txt"))
}

func TestFailedUploadKeepsPreviousObject(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Upload(context.Background(), "lessons/l1/video.mp4", bytes.NewReader([]byte("original")), UploadOptions{Upsert: true}))

	err = store.Upload(context.Background(), "lessons/l1/video.mp4", &failingReader{prefix: []byte("partial")}, UploadOptions{Upsert: true})
	require.Error(t, err)

	assert.Equal(t, "original", readAll(t, store, "lessons/l1/video.mp4"))

	entries, err := os.ReadDir(filepath.Join(dir, "lessons", "l1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be cleaned up")
}

func TestUploadHonoursCancellation(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = store.Upload(ctx, "a.txt", strings.NewReader("data"), UploadOptions{})
	assert.ErrorIs(t, err, context.Canceled)

	_, _, err = store.Open(context.Background(), "a.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestRemoveMissingObjectSucceeds(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Remove(context.Background(), "nothing/here.pdf"))

	require.NoError(t, store.Upload(context.Background(), "x.pdf", strings.NewReader("pdf"), UploadOptions{}))
	require.NoError(t, store.Remove(context.Background(), "x.pdf"))
	_, _, err = store.Open(context.Background(), "x.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, p := range []string{"", "/etc/passwd", "../secret", "a/../../b", `a\b`} {
		err := store.Upload(context.Background(), p, strings.NewReader("x"), UploadOptions{})
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}
