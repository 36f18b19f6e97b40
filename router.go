package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	httpapi "github.com/yourorg/realty-agent-api/http"
	"github.com/yourorg/realty-agent-api/internal/logger"
)

type RouterOptions struct {
	RequestsPerMinute int
	AllowedOrigins    []string
}

func BuildRouter(api httpapi.Deps, diag httpapi.DiagnosticsDeps, opts RouterOptions) http.Handler {
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 100
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(httprate.LimitByIP(opts.RequestsPerMinute, 1*time.Minute)) // protect upstream quota
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })

	httpapi.RegisterProperties(r, api)
	httpapi.RegisterAgents(r, api)
	httpapi.RegisterNeighborhoods(r, api)
	httpapi.RegisterAds(r, api)
	httpapi.RegisterDiagnostics(r, diag)

	return r
}
