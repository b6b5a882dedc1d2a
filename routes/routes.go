package routes

import (
	"net/http"
	"time"

	"github.com/geoview/poimap/app"
	"github.com/geoview/poimap/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "https://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check endpoints
	health := handlers.NewHealthHandler(deps, deps.Logger)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/map", func(r chi.Router) {
			r.Get("/state", handlers.MapStateHandler(deps))
			r.Post("/layer", handlers.SelectLayerHandler(deps))
			r.Post("/tiles/events", handlers.TileEventHandler(deps))
			r.Get("/providers", handlers.ListProvidersHandler(deps))
			r.Get("/center", handlers.MapCenterHandler(deps))
		})

		r.Get("/pois", handlers.ListPOIsHandler(deps))
	})

	// Tile proxy
	r.Get("/tiles/{z}/{x}/{y}.png", handlers.TileHandler(deps))

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
