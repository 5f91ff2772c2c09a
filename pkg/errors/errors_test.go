package errors

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	err := Clone(ErrNotFound, "lesson not found")
	got := FromError(err)
	require.NotNil(t, got)
	assert.Equal(t, "NOT_FOUND", got.Code)
	assert.Equal(t, "lesson not found", got.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	got := FromError(sql.ErrConnDone)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.True(t, errors.Is(got, sql.ErrConnDone))
}

func TestHelpers(t *testing.T) {
	cause := errors.New("boom")
	assert.Equal(t, ErrInternal.Code, Internal(cause, "failed").Code)
	assert.Equal(t, http.StatusBadRequest, Invalid(cause, "bad").Status)
	assert.Equal(t, "bad: boom", Invalid(cause, "bad").Error())
	assert.Nil(t, FromError(nil))
}
