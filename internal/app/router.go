package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/avjabalpur/cian-erp-sub001/internal/approval/records"
	"github.com/avjabalpur/cian-erp-sub001/internal/auth"
	"github.com/avjabalpur/cian-erp-sub001/internal/collab"
	"github.com/avjabalpur/cian-erp-sub001/internal/observability"
	"github.com/avjabalpur/cian-erp-sub001/internal/options"
	"github.com/avjabalpur/cian-erp-sub001/internal/rbac"
	"github.com/avjabalpur/cian-erp-sub001/internal/shared"
	"github.com/avjabalpur/cian-erp-sub001/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	AuthHandler    *auth.Handler
	RecordsHandler *records.Handler
	CollabHandler  *collab.Handler
	OptionsHandler *options.Handler
	JobHandler     *jobs.Handler
	RBACHandler    *rbac.Handler
	RBACMiddleware rbac.Middleware
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router for the approval service.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	params.AuthHandler.MountRoutes(r)

	r.Route("/api", func(r chi.Router) {
		params.RecordsHandler.MountRoutes(r, params.RBACMiddleware)
		params.CollabHandler.MountRoutes(r, params.RBACMiddleware)
		params.OptionsHandler.MountRoutes(r, params.RBACMiddleware)
		if params.RBACHandler != nil {
			params.RBACHandler.MountRoutes(r, params.RBACMiddleware)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
