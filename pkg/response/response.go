package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/lms-admin-api/pkg/errors"
)

// Envelope represents the response contract for writes and auth endpoints.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *appErrors.Error       `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// Outcome is a read result that renders itself as {data, error}.
type Outcome interface {
	json.Marshaler
	Failed() bool
	Precondition() bool
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	noStore(c)
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// Result writes a read outcome verbatim. Data-access failures map to 500 and
// precondition failures to 401.
func Result(c *gin.Context, out Outcome) {
	status := http.StatusOK
	switch {
	case out.Precondition():
		status = http.StatusUnauthorized
	case out.Failed():
		status = http.StatusInternalServerError
	}
	ResultWithStatus(c, status, out)
}

// ResultWithStatus writes a read outcome with an explicit status code.
func ResultWithStatus(c *gin.Context, status int, out Outcome) {
	noStore(c)
	c.JSON(status, out)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
