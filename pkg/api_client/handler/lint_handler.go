package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/biotools-linter/linter-api/pkg/api_client/helper/problem"
	"github.com/biotools-linter/linter-api/pkg/api_client/middleware"
	"github.com/biotools-linter/linter-api/pkg/api_client/models"
)

// maxDocumentSize bounds the tool document accepted by the JSON lint.
const maxDocumentSize = 4 << 20

/* ------------------------- RELINT ------------------------- */

// POST /api/lint?tool=<id>
func (lc *LinterController) RelintTool(c *gin.Context, p *models.RelintParams) (*models.RelintResult, error) {
	res, err := lc.Relint.Relint(c.Request.Context(), middleware.ClientIP(c), p.Tool)
	if err != nil {
		return nil, lc.toProblem(err)
	}
	return res, nil
}

/* ------------------------- JSON LINT ------------------------- */

// POST /api/json?biotools_format=<bool>  (body = raw bio.tools document)
// Plain gin handler so the body reaches the analyzer unread.
func (lc *LinterController) LintJSON(c *gin.Context) {
	var p models.JSONLintParams
	if err := c.ShouldBindQuery(&p); err != nil {
		lc.abort(c, err)
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxDocumentSize)
	out, err := lc.Relint.LintJSON(c.Request.Context(), middleware.ClientIP(c), body, p.BiotoolsFormat)
	if err != nil {
		lc.abort(c, lc.toProblem(err))
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}

// abort writes err as problem details for handlers outside tonic.
func (lc *LinterController) abort(c *gin.Context, err error) {
	var apiErr problem.APIError
	if !errors.As(err, &apiErr) {
		apiErr = problem.NewBadRequest("", err.Error())
	}
	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}
