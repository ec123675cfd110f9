// Package server wires the HTTP routes and middleware of the quotes API.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/go-quotes/httpx"
	"github.com/diewo77/go-quotes/internal/config"
	"github.com/diewo77/go-quotes/internal/handlers"
	"github.com/diewo77/go-quotes/internal/middleware"
	"github.com/diewo77/go-quotes/internal/services"
)

// Options tunes the router. A zero RateLimit.RPS disables rate limiting.
type Options struct {
	List      handlers.ListOptions
	RateLimit config.RateLimitConfig
}

// OptionsFrom derives router options from the application config.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		List: handlers.ListOptions{
			DefaultPageSize: cfg.List.DefaultPageSize,
			MaxPageSize:     cfg.List.MaxPageSize,
		},
		RateLimit: cfg.RateLimit,
	}
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, opts Options, log *zap.Logger) http.Handler {
	if opts.List.DefaultPageSize <= 0 {
		opts.List.DefaultPageSize = 10
	}
	r := chi.NewRouter()
	r.Use(middleware.Logging(log), middleware.Recover(log), middleware.Prefs)
	if opts.RateLimit.RPS > 0 {
		rl := middleware.NewRateLimiter(opts.RateLimit.RPS, opts.RateLimit.Burst, 10*time.Minute)
		r.Use(rl.Middleware(log))
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Error(w, r, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})

	// --- Health endpoints ---
	r.Get("/health", handlers.Health)
	r.Get("/healthz", handlers.Ready(db))

	quoteSvc := services.NewQuotationService(db)
	ih := handlers.NewItemHandler(db, log, opts.List)
	ch := handlers.NewClientHandler(db, log, opts.List)
	qh := handlers.NewQuotationHandler(quoteSvc, log, opts.List)
	dh := handlers.NewDashboardHandler(services.NewDashboardService(db, quoteSvc), log)

	r.Route("/api", func(api chi.Router) {
		api.Get("/dashboard", dh.Show)

		api.Route("/items", func(sr chi.Router) {
			sr.Get("/", ih.List)
			sr.Post("/", ih.Create)
			sr.Post("/view", ih.View)
			sr.Post("/bulk-delete", ih.BulkDelete)
			sr.Get("/{id}", ih.Get)
			sr.Put("/{id}", ih.Update)
			sr.Delete("/{id}", ih.Delete)
		})

		api.Route("/clients", func(sr chi.Router) {
			sr.Get("/", ch.List)
			sr.Post("/", ch.Create)
			sr.Post("/view", ch.View)
			sr.Post("/bulk-delete", ch.BulkDelete)
			sr.Get("/{id}", ch.Get)
			sr.Put("/{id}", ch.Update)
			sr.Delete("/{id}", ch.Delete)
		})

		api.Route("/quotations", func(sr chi.Router) {
			sr.Get("/", qh.List)
			sr.Post("/", qh.Create)
			sr.Post("/view", qh.View)
			sr.Post("/bulk-delete", qh.BulkDelete)
			sr.Post("/preview", qh.Preview)
			sr.Get("/{id}", qh.Get)
			sr.Put("/{id}", qh.Update)
			sr.Delete("/{id}", qh.Delete)
			sr.Get("/{id}/totals", qh.Totals)
			sr.Post("/{id}/status", qh.SetStatus)
		})
	})
	return r
}
