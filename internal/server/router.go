package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cloo-solutions/storefront/internal/api"
	"github.com/cloo-solutions/storefront/internal/api/handlers"
	"github.com/cloo-solutions/storefront/internal/api/middleware"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/metrics"
)

type RouterConfig struct {
	Logger            *zap.Logger
	Metrics           *metrics.Metrics
	AuthValidator     middleware.AuthValidator // nil disables /admin
	SearchHandler     *handlers.SearchHandler
	StorefrontHandler *handlers.StorefrontHandler
	ContactHandler    *handlers.ContactHandler
	AdminHandler      *handlers.AdminHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.AccessLog(logger, cfg.Metrics))
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		locale := i18n.Negotiate(r.Header.Get("Accept-Language"))
		w.Header().Set("Vary", "Accept-Language")
		http.Redirect(w, r, "/"+locale, http.StatusFound)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", cfg.SearchHandler.Search)
		r.Post("/search/feedback", cfg.SearchHandler.Feedback)
	})

	if cfg.AuthValidator != nil && cfg.AdminHandler != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.AuthValidator))

			r.Post("/products", cfg.AdminHandler.CreateProduct)
			r.Delete("/products/{id}", cfg.AdminHandler.DeleteProduct)
			r.Post("/products/{id}/images", cfg.AdminHandler.InitImageUpload)
			r.Post("/products/{id}/images/complete", cfg.AdminHandler.CompleteImageUpload)
			r.Put("/hero", cfg.AdminHandler.UpdateHero)
			r.Get("/contact", cfg.AdminHandler.ListContactMessages)
		})
	}

	r.Route("/{locale}", func(r chi.Router) {
		r.Use(middleware.Locale)

		r.Get("/", cfg.StorefrontHandler.Home)
		r.Get("/collection", cfg.StorefrontHandler.Collection)
		r.Get("/collection/{slug}", cfg.StorefrontHandler.Product)
		r.Get("/about", cfg.StorefrontHandler.About)
		r.Post("/contact", cfg.ContactHandler.Submit)
	})

	return r
}
