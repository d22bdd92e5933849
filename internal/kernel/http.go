// Package kernel builds the catalog's HTTP handler: global middleware,
// operational endpoints and the product routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/routes"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/reqid"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

const healthTimeout = 2 * time.Second

// HTTPKernel owns the router for one database handle.
type HTTPKernel struct {
	router *router.Router
	db     *gorm.DB
}

// NewHTTPKernel wires everything against db. A nil db is fine for callers
// that only inspect the route table.
func NewHTTPKernel(db *gorm.DB) *HTTPKernel {
	k := &HTTPKernel{router: router.New(), db: db}
	r := k.router

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics — outermost for accurate total latency
	//  2. Recovery          — catches panics before they kill the goroutine
	//  3. Request ID        — inject unique ID before anything logs
	//  4. Logger            — logs request_id from context
	//  5. CORS              — set CORS headers, answer preflight
	//  6. StripSlashes      — /products/ and /products route the same
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORSFromConfig())
	r.Use(chimw.StripSlashes)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Detail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "health", k.health)

	routes.RegisterAPI(r, db)
	return k
}

// Handler returns the root http.Handler.
func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Router exposes the route table, e.g. for `route:list`.
func (k *HTTPKernel) Router() *router.Router { return k.router }

func (k *HTTPKernel) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := database.Ping(ctx, k.db); err != nil {
		response.Detail(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	response.OK(w, map[string]string{"status": "ok"})
}
