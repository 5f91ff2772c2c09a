package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-admin-api/internal/query"
	appErrors "github.com/noah-isme/lms-admin-api/pkg/errors"
	"github.com/noah-isme/lms-admin-api/pkg/response"
)

func listParams(c *gin.Context) query.Params {
	return query.ParamsFromValues(c.Request.URL.Query())
}

// respondOne writes a single-entity read. A missing entity is a successful
// query, so the body keeps the {data, error} shape and only the status is 404.
func respondOne[T any](c *gin.Context, res query.Result[*T]) {
	if value, ok := res.Data(); ok && value == nil {
		response.ResultWithStatus(c, http.StatusNotFound, res)
		return
	}
	response.Result(c, res)
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid payload"))
		return false
	}
	return true
}
