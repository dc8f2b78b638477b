package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/leca/dt-user-images/internal/api"
	"github.com/leca/dt-user-images/internal/config"
	"github.com/leca/dt-user-images/internal/database"
	"github.com/leca/dt-user-images/internal/handler"
	"github.com/leca/dt-user-images/internal/storage"
)

// Server holds the application dependencies and HTTP router.
type Server struct {
	DB     database.Database
	Store  storage.Storage
	Config *config.Config
	Router chi.Router
}

// New creates a new Server with a fully configured chi router.
func New(db database.Database, store storage.Storage, cfg *config.Config) *Server {
	s := &Server{DB: db, Store: store, Config: cfg}

	h := &handler.Handler{
		DB:     db,
		Store:  store,
		Config: cfg,
	}

	r := chi.NewRouter()

	// CORS — must be before other middleware to handle preflight OPTIONS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.LandingPage)
	r.Get("/health", s.Health)

	r.Post("/upload-image", h.UploadImage)

	r.Group(func(r chi.Router) {
		r.Use(api.UserIDMiddleware)

		r.Get("/image-links/{userId}", h.ListImageLinks)
		r.Get("/uploads/{userId}/images/{image}", h.GetImage)
		r.Get("/uploads/{userId}/images/{image}/info", h.GetImageInfo)
		r.Delete("/delete-image/{userId}/{imageName}", h.DeleteImage)
		r.Get("/stats/{userId}", h.GetStats)
	})

	// Everything under the upload root is also reachable at its relative path.
	r.NotFound(h.UploadsStatic().ServeHTTP)

	s.Router = r
	return s
}

// Health returns a simple health-check response.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HTTPServer returns an http.Server for s bound to the configured listen address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.Config.ListenAddr,
		Handler:      s.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
	}
}
