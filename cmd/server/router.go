package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/catalog-browser/internal/config"
	"github.com/Lixing-Zhang/catalog-browser/internal/handlers"
	"github.com/Lixing-Zhang/catalog-browser/internal/middleware"
	"github.com/Lixing-Zhang/catalog-browser/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func newRouter(cfg *config.Config, log *slog.Logger, browserService *service.BrowserService) http.Handler {
	healthHandler := handlers.NewHealthHandler(browserService, log)
	browserHandler := handlers.NewBrowserHandler(browserService, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", browserHandler.Mount)

		r.Route("/{sessionId}", func(r chi.Router) {
			r.Use(middleware.Session(browserService, log))

			r.Get("/", browserHandler.GetView)
			r.Delete("/", browserHandler.Unmount)
			r.Put("/search-term", browserHandler.SetSearchTerm)
			r.Post("/search", browserHandler.Search)
			r.Post("/clear", browserHandler.Clear)
			r.Post("/cart", browserHandler.AddToCart)
			r.Delete("/cart/{productId}", browserHandler.RemoveFromCart)
		})
	})

	return r
}
