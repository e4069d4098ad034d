package main

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/travel-getaway/internal/config"
	"github.com/janisto/travel-getaway/internal/http/health"
	"github.com/janisto/travel-getaway/internal/http/v1/routes"
	applog "github.com/janisto/travel-getaway/internal/platform/logging"
	"github.com/janisto/travel-getaway/internal/platform/metrics"
	appmiddleware "github.com/janisto/travel-getaway/internal/platform/middleware"
	"github.com/janisto/travel-getaway/internal/platform/respond"
)

const docsPath = "/api-docs"

// newRouter assembles the full middleware stack, the plain endpoints and the huma API.
func newRouter(cfg *config.Config, m *metrics.HTTPMetrics) http.Handler {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		m.Middleware(),
		appmiddleware.Security(docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(cfg.CORSOrigins),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For / X-Real-IP; deploy behind a proxy that sets them.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20),
		chimiddleware.GetHead,
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler)
	router.Method(http.MethodGet, "/metrics", m.Handler())
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond.WriteRedirect(w, r, docsPath, http.StatusFound)
	})

	humaCfg := huma.DefaultConfig("Travel Getaway API", Version)
	humaCfg.DocsPath = docsPath
	api := humachi.New(router, humaCfg)
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContent)

	routes.Register(api)
	return router
}

// addCBORContent advertises application/cbor wherever an operation accepts or returns JSON.
func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}
