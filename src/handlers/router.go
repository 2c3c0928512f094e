// backend/src/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/kuyumcu/backend/src/metrics"
	"github.com/username/kuyumcu/backend/src/utils"
	"golang.org/x/time/rate"
)

// RouterConfig carries the handlers the HTTP surface is assembled from.
type RouterConfig struct {
	DistDir string
	API     *ProxyHandler
	Market  *ProxyHandler
	Reports *ReportHandler
	Limiter *rate.Limiter
}

// NewRouter builds the routing table. Operational routes come first; /api and /market-api are
// proxied; everything else is served from the bundle.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(ContextualLoggerMiddleware)
	if cfg.Limiter != nil {
		r.Use(RateLimitMiddleware(cfg.Limiter))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	if cfg.Reports != nil {
		r.Route("/report-api", func(r chi.Router) {
			r.Get("/reports", cfg.Reports.HandleListReports)
			r.Get("/reports/preview", cfg.Reports.HandlePreviewReport)
			r.Get("/reports/{date}/text", cfg.Reports.HandleDownloadReportText)
			r.Post("/reports/generate", cfg.Reports.HandleGenerateReport)
			r.Get("/runs", cfg.Reports.HandleListRuns)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(RequireBundle(cfg.DistDir))

		if cfg.API != nil {
			r.Handle("/api", cfg.API)
			r.Handle("/api/*", cfg.API)
		}
		if cfg.Market != nil {
			r.Handle("/market-api", cfg.Market)
			r.Handle("/market-api/*", cfg.Market)
		}
		r.Handle("/*", NewStaticHandler(cfg.DistDir))
	})

	return r
}
