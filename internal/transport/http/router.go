// Package httptransport assembles the HTTP surface of the service: public
// API routes, the authenticated admin routes, and the operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "pccreg/internal/admin/handler"
	audithandler "pccreg/internal/audit/handler"
	contenthandler "pccreg/internal/content/handler"
	"pccreg/internal/platform/middleware"
	rlmiddleware "pccreg/internal/ratelimit/middleware"
	rlmodels "pccreg/internal/ratelimit/models"
	reghandler "pccreg/internal/registration/handler"
	"pccreg/internal/seed"
	"pccreg/internal/siteconfig"
	"pccreg/internal/upload"
)

const defaultRequestTimeout = 30 * time.Second

// Deps carries the handlers and cross-cutting services the router mounts.
type Deps struct {
	Logger *slog.Logger
	Tokens middleware.TokenValidator

	// Limiter may be nil, in which case no per-route rate limiting is applied.
	Limiter rlmiddleware.Limiter

	Registrations *reghandler.Handler
	SiteConfig    *siteconfig.Handler
	Content       *contenthandler.Handler
	Auth          *adminhandler.Handler
	Audit         *audithandler.Handler
	Upload        *upload.Handler
	Seed          *seed.Handler

	// UploadDir, when set, is served read-only under /uploads.
	UploadDir string

	RequestTimeout time.Duration
}

// New builds the full route tree.
func New(deps Deps) http.Handler {
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	if deps.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	r.Route("/api", func(api chi.Router) {
		api.Group(func(pub chi.Router) {
			if deps.Limiter != nil {
				pub.Use(rlmiddleware.LimitByIP(deps.Limiter, rlmodels.PolicyAPI))
			}

			deps.Registrations.Register(pub)
			deps.SiteConfig.Register(pub)
			deps.Content.Register(pub)
			deps.Auth.Register(pub)
			deps.Upload.Register(pub)
			if deps.Seed != nil {
				deps.Seed.Register(pub)
			}

			// Submissions get a much tighter budget than the rest of the API.
			pub.Group(func(sub chi.Router) {
				if deps.Limiter != nil {
					sub.Use(rlmiddleware.LimitByIP(deps.Limiter, rlmodels.PolicyRegistration))
				}
				deps.Registrations.RegisterSubmit(sub)
			})
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireAuth(deps.Tokens, deps.Logger))

			deps.Registrations.RegisterAdmin(admin)
			deps.SiteConfig.RegisterAdmin(admin)
			deps.Content.RegisterAdmin(admin)
			deps.Auth.RegisterAdmin(admin)
			deps.Audit.RegisterAdmin(admin)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
