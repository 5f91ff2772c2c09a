package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/lms-admin-api/pkg/errors"
)

type stubOutcome struct {
	failed, precondition bool
	body                 string
}

func (s stubOutcome) MarshalJSON() ([]byte, error) { return []byte(s.body), nil }
func (s stubOutcome) Failed() bool                 { return s.failed }
func (s stubOutcome) Precondition() bool           { return s.precondition }

func TestResultStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		out    stubOutcome
		status int
	}{
		{"ok", stubOutcome{body: `{"data":[],"error":null}`}, http.StatusOK},
		{"failed", stubOutcome{failed: true, body: `{"data":null,"error":"db down"}`}, http.StatusInternalServerError},
		{"precondition", stubOutcome{failed: true, precondition: true, body: `{"data":null,"error":"no active session"}`}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			Result(c, tc.out)
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.out.body, w.Body.String())
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		})
	}
}

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, appErrors.Clone(appErrors.ErrNotFound, "lesson not found"))

	require.Equal(t, http.StatusNotFound, w.Code)
	var body Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "lesson not found", body.Error.Message)
}

func TestErrorEnvelopeHidesUntypedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password authentication")
}
