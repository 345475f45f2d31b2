package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/biotools-linter/linter-api/pkg/api_client/helper/problem"
	"github.com/biotools-linter/linter-api/pkg/api_client/models"
)

/* ------------------------- STATISTICS ------------------------- */

// GET /api/statistics
func (lc *LinterController) GetStatistics(c *gin.Context) (*models.Statistics, error) {
	stats, err := lc.Statistics.Statistics(c.Request.Context())
	if err != nil {
		return nil, lc.toProblem(err)
	}
	return stats, nil
}

/* ------------------------- CODES ------------------------- */

// GET /api/codes
func (lc *LinterController) ListCodes(c *gin.Context) (*models.CodeList, error) {
	return &models.CodeList{Codes: lc.Catalog.Codes()}, nil
}

// GET /api/codes/:code
func (lc *LinterController) GetCode(c *gin.Context, p *models.CodeParams) (*models.ErrorCode, error) {
	code, ok := lc.Catalog.Lookup(strings.ToUpper(strings.TrimSpace(p.Code)))
	if !ok {
		return nil, problem.NewNotFound(c.Request.URL.Path, "Unknown error code",
			problem.InvalidParam{Name: "code", Reason: "not in the catalogue"})
	}
	return &code, nil
}

/* ------------------------- HEALTH ------------------------- */

// GET /health
func (lc *LinterController) Health(c *gin.Context) (*models.Health, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := lc.Store.Ping(ctx); err != nil {
		lc.Logger.Warn().Err(err).Msg("health check failed")
		return nil, problem.NewServiceUnavailable("database unreachable")
	}
	if lc.Cache != nil {
		if err := lc.Cache.Ping(ctx); err != nil {
			lc.Logger.Warn().Err(err).Msg("summary cache unreachable")
			return &models.Health{Status: "degraded"}, nil
		}
	}
	return &models.Health{Status: "ok"}, nil
}
