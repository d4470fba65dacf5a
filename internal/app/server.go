package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/markdave123-py/Cluster/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/Cluster/internal/api/middlewares"
	"github.com/markdave123-py/Cluster/internal/api/response"
	"github.com/markdave123-py/Cluster/internal/config"
	"github.com/markdave123-py/Cluster/internal/logger"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, deps Deps, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, deps, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// NewRouter returns the full HTTP API.
func NewRouter(cfg *config.Config, deps Deps, log *logger.Logger) http.Handler {
	users, lectures, history := newServices(cfg, deps, log)

	authHandler := handlers.NewAuthHandler(users, log)
	lectureHandler := handlers.NewLectureHandler(lectures, int64(cfg.MaxUploadMB)<<20, log)
	historyHandler := handlers.NewHistoryHandler(history, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(appMiddleware.RequestLogger(log.With("component", "http")))
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	allowCredentials := true
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowCredentials = false
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: allowCredentials,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	// public endpoints
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Post("/summarise", lectureHandler.Summarise)
	r.Post("/upload", lectureHandler.Upload)

	// protected endpoints
	r.Group(func(protected chi.Router) {
		protected.Use(appMiddleware.JWTMiddleware(users, log))
		protected.Post("/evaluate", lectureHandler.Evaluate)
		protected.Post("/store-lecture", historyHandler.StoreLecture)
		protected.Post("/store-student-response", historyHandler.StoreStudentResponse)
		protected.Get("/upload-history", historyHandler.UploadHistory)
	})

	return r
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
