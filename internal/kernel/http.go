// Package kernel builds the HTTP handler: the global middleware stack and
// every route.
package kernel

import (
	"time"

	"github.com/projectdesk/projectdesk/app/routes"
	"github.com/projectdesk/projectdesk/config"
	"github.com/projectdesk/projectdesk/pkg/metrics"
	"github.com/projectdesk/projectdesk/pkg/middleware"
	"github.com/projectdesk/projectdesk/pkg/reqid"
	"github.com/projectdesk/projectdesk/pkg/router"
)

// New returns a router with the middleware stack applied and the API
// registered.
func New(cfg *config.Config, deps routes.Deps) (*router.Router, error) {
	r := router.New()

	// Outermost first. Metrics see the full latency; the request ID must
	// exist before anything logs.
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(cfg.App.CORSOrigins...)))
	r.Use(middleware.RateLimit(cfg.App.RateLimit, time.Minute))

	// Prometheus /metrics endpoint: no auth.
	r.Get("/metrics", "metrics", metrics.Handler())

	if err := routes.RegisterAPI(r, deps); err != nil {
		return nil, err
	}
	return r, nil
}
