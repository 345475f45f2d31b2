package api_client

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/loopfz/gadgeto/tonic"

	"github.com/biotools-linter/linter-api/pkg/api_client/helper/problem"
)

// ErrorHook renders tonic handler errors as problem details.
func ErrorHook(c *gin.Context, err error) (int, interface{}) {
	c.Header("Content-Type", "application/problem+json")

	var apiErr problem.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr
	}

	// Query binding and validation failures
	var bindErr tonic.BindError
	if errors.As(err, &bindErr) {
		invalid := problem.NewBadRequest(c.Request.URL.Path, bindErr.Error())
		return invalid.Status, invalid
	}

	internal := problem.NewInternalServerError(err.Error())
	return internal.Status, internal
}
