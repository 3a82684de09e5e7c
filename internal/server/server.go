// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fedscope/internal/config"
	"fedscope/internal/server/handlers"
)

// Stores bundles the storage dependencies of the HTTP layer
type Stores struct {
	Trends    handlers.TrendStore
	Statuses  handlers.StatusStore
	Accounts  handlers.AccountStore
	Instances handlers.InstanceStore
	Verdicts  handlers.VerdictStore
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	stores Stores,
	gateway handlers.AnalyzeGateway,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	trendHandler := handlers.NewTrendHandler(stores.Trends)
	statusHandler := handlers.NewStatusHandler(stores.Statuses)
	accountHandler := handlers.NewAccountHandler(stores.Accounts)
	instanceHandler := handlers.NewInstanceHandler(stores.Instances)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			r.Route("/trends", func(r chi.Router) {
				r.Get("/", trendHandler.GetTrends)
				r.Get("/suspicious", trendHandler.GetSuspiciousTrends)
			})

			r.Route("/statuses", func(r chi.Router) {
				r.Get("/suspicious", statusHandler.GetSuspiciousStatuses)
				r.Get("/suspicious/{id}", statusHandler.GetSuspiciousStatus)
			})

			r.Get("/accounts", accountHandler.GetAccounts)
			r.Get("/instances", instanceHandler.GetInstances)
		})
	})

	// WebSocket endpoint for interactive classification
	router.Get("/ws/analyze", handlers.AnalyzeWebSocketHandler(gateway, stores.Verdicts, logger))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
