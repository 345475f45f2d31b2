package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/biotools-linter/linter-api/pkg/api_client/models"
	"github.com/biotools-linter/linter-api/pkg/api_client/services"
)

/* ------------------------- SEARCH ------------------------- */

// GET /api/search?query=&page=&severity=&code=
func (lc *LinterController) SearchMessages(c *gin.Context, p *models.SearchParams) (*models.SearchResponse, error) {
	res, err := lc.Search.Search(c.Request.Context(), *p)
	if err != nil {
		return nil, lc.toProblem(err)
	}
	return res, nil
}

/* ------------------------- DOWNLOAD ------------------------- */

// GET /api/download?query=
func (lc *LinterController) DownloadMessages(c *gin.Context, p *models.SearchParams) error {
	if _, err := services.ParseFilter(*p); err != nil {
		return lc.toProblem(err)
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="messages.csv"`)
	c.Status(http.StatusOK)
	if err := lc.Search.Download(c.Request.Context(), *p, c.Writer); err != nil {
		// Headers are gone; the client sees a truncated file.
		lc.Logger.Error().Err(err).Msg("csv download aborted")
		_ = c.Error(err)
	}
	return nil
}

/* ------------------------- SUMMARY ------------------------- */

// GET /api/summary
func (lc *LinterController) GetSummary(c *gin.Context) (*models.Summary, error) {
	sum, err := lc.Summary.Summary(c.Request.Context())
	if err != nil {
		return nil, lc.toProblem(err)
	}
	return sum, nil
}
