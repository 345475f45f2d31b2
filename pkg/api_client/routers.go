package api_client

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/loopfz/gadgeto/tonic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/wI2L/fizz"
	"github.com/wI2L/fizz/openapi"

	"github.com/biotools-linter/linter-api/pkg/api_client/handler"
	"github.com/biotools-linter/linter-api/pkg/api_client/helper/problem"
	"github.com/biotools-linter/linter-api/pkg/api_client/middleware"
)

var (
	apiVersionHeader = fizz.Header(
		"API-Version",
		"API version of the response",
		"",
	)

	badRequestResponse = fizz.Response(
		"400",
		"Bad Request",
		problem.APIError{},
		nil,
		nil,
	)

	tooManyRequestsResponse = fizz.Response(
		"429",
		"Too Many Requests",
		problem.APIError{},
		nil,
		nil,
	)

	internalErrorResponse = fizz.Response(
		"500",
		"Internal Server Error",
		problem.APIError{},
		nil,
		nil,
	)
)

// RouterOptions carries the wiring that is not part of the controller.
type RouterOptions struct {
	APIVersion  string
	TrustRealIP bool
	Limiter     *middleware.GlobalLimiter
	Logger      zerolog.Logger
}

func NewRouter(opts RouterOptions, controller *handler.LinterController) *fizz.Fizz {
	g := gin.New()
	g.Use(gin.Recovery())
	g.Use(middleware.RealIP(opts.TrustRealIP))
	g.Use(middleware.Logger(opts.Logger))
	g.Use(middleware.Metrics())

	// Configure CORS to allow access from everywhere
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "HEAD", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "API-Version"}
	config.ExposeHeaders = []string{"API-Version", "Retry-After"}
	g.Use(cors.New(config))

	g.Use(APIVersionMiddleware(opts.APIVersion))
	f := fizz.NewFromEngine(g)

	f.Generator().SetServers([]*openapi.Server{
		{
			URL:         "https://biotools-linter.biodata.ceitec.cz",
			Description: "Production",
		},
	})

	gen := f.Generator()
	gen.API().Components.Headers["API-Version"] = &openapi.HeaderOrRef{
		Header: &openapi.Header{
			Description: "API version of the response",
			Schema: &openapi.SchemaOrRef{
				Schema: &openapi.Schema{
					Type:    "string",
					Example: "1.0.0",
				},
			},
		},
	}

	info := &openapi.Info{
		Title:       "bio.tools Linter API",
		Description: "Lint results for tools registered on bio.tools, and on-demand relinting.",
		Version:     opts.APIVersion,
		Contact: &openapi.Contact{
			Name: "bio.tools linter",
			URL:  "https://github.com/3mdeb/biotools-linter/issues",
		},
	}

	root := f.Group("/api", "API", "Lint results API routes")

	// Read side
	results := root.Group("", "Results", "Stored lint messages and statistics")

	// GET /api/search
	results.GET("/search",
		[]fizz.OperationOption{
			fizz.ID("searchMessages"),
			fizz.Summary("Search lint messages"),
			fizz.Description("Lists messages newest first, 100 per page. `query` matches the tool ID or error code, `severity` selects one severity, `code` matches the error code and accepts SQL wildcards."),
			apiVersionHeader,
			badRequestResponse,
		},
		tonic.Handler(controller.SearchMessages, 200),
	)

	// GET /api/download
	results.GET("/download",
		[]fizz.OperationOption{
			fizz.ID("downloadMessages"),
			fizz.Summary("Download lint messages as CSV"),
			fizz.Description("Streams every matching message as CSV with the columns time, timestamp, tool, code, severity, text. Shares the global rate limit with relinting."),
			badRequestResponse,
			tooManyRequestsResponse,
		},
		opts.Limiter.Limit("download"),
		tonic.Handler(controller.DownloadMessages, 200),
	)

	// GET /api/summary
	results.GET("/summary",
		[]fizz.OperationOption{
			fizz.ID("getSummary"),
			fizz.Summary("Headline counters"),
			fizz.Description("Total messages, unique tools, critical messages and the oldest entry."),
			apiVersionHeader,
		},
		tonic.Handler(controller.GetSummary, 200),
	)

	// GET /api/statistics
	results.GET("/statistics",
		[]fizz.OperationOption{
			fizz.ID("getStatistics"),
			fizz.Summary("Historic statistics"),
			fizz.Description("Precomputed statistics buckets. Every bucket lists every known error code, null where no value was recorded."),
			apiVersionHeader,
			fizz.Response("503", "Service Unavailable", problem.APIError{}, nil, nil),
		},
		tonic.Handler(controller.GetStatistics, 200),
	)

	// GET /api/codes
	results.GET("/codes",
		[]fizz.OperationOption{
			fizz.ID("listCodes"),
			fizz.Summary("Error code catalogue"),
			apiVersionHeader,
		},
		tonic.Handler(controller.ListCodes, 200),
	)

	// GET /api/codes/:code
	results.GET("/codes/:code",
		[]fizz.OperationOption{
			fizz.ID("getCode"),
			fizz.Summary("Describe one error code"),
			apiVersionHeader,
			fizz.Response("404", "Not Found", problem.APIError{}, nil, nil),
		},
		tonic.Handler(controller.GetCode, 200),
	)

	// Relint
	lint := root.Group("", "Lint", "Run the analyzer on demand")

	// POST /api/lint
	lint.POST("/lint",
		[]fizz.OperationOption{
			fizz.ID("relintTool"),
			fizz.Summary("Relint a tool"),
			fizz.Description("Runs the analyzer for one tool and waits for it. One relint per client address and per tool at a time, and one new relint or download every few seconds overall."),
			apiVersionHeader,
			badRequestResponse,
			tooManyRequestsResponse,
			internalErrorResponse,
		},
		opts.Limiter.Limit("lint"),
		tonic.Handler(controller.RelintTool, 200),
	)

	// POST /api/json (plain handler, not part of the generated document)
	lint.POST("/json",
		[]fizz.OperationOption{},
		opts.Limiter.Limit("json"),
		controller.LintJSON,
	)

	// OpenAPI documentation
	f.GET("/api/openapi.json", []fizz.OperationOption{}, f.OpenAPI(info, "json"))

	// Operations
	f.GET("/health",
		[]fizz.OperationOption{
			fizz.ID("health"),
			fizz.Summary("Liveness and database reachability"),
		},
		tonic.Handler(controller.Health, 200),
	)
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return f
}

type apiVersionWriter struct {
	gin.ResponseWriter
	version string
}

func (w *apiVersionWriter) WriteHeader(code int) {
	if code >= 200 && code < 300 {
		w.Header().Set("API-Version", w.version)
	}
	w.ResponseWriter.WriteHeader(code)
}

func APIVersionMiddleware(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &apiVersionWriter{c.Writer, version}
		c.Next()
	}
}
