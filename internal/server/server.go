package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/me/folio/internal/config"
	"github.com/me/folio/internal/logging"
	"github.com/me/folio/internal/store"
	"github.com/me/folio/pkg/model"
)

// Server is the folio development backend.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	store     store.Store
	tokens    *tokenIssuer
	now       func() time.Time
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithClock replaces time.Now, for tests that need stable timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, st store.Store, logger *slog.Logger, opts ...Option) *Server {
	logger = logging.Component(logger, "server")

	cfg.APIPrefix = strings.TrimSuffix(cfg.APIPrefix, "/")
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join(os.TempDir(), "folio-uploads")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	secret := cfg.JWTSecret
	if secret == "" {
		secret = randomSecret()
		logger.Warn("no JWT secret configured, tokens will not survive a restart")
	}

	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
		store:     st,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tokens = newTokenIssuer([]byte(secret), cfg.TokenTTL, s.now)

	s.routes()
	return s
}

// SeedAdmin creates the configured admin account when it does not exist yet.
// Without a configured password nothing is created and login stays closed.
func (s *Server) SeedAdmin(ctx context.Context) error {
	if s.config.AdminPassword == "" {
		s.logger.Warn("no admin password configured, login is disabled", "email", s.config.AdminEmail)
		return nil
	}

	_, err := s.store.GetUserByEmail(ctx, s.config.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.config.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	u := &store.User{
		User: model.User{
			ID:    uuid.NewString(),
			Name:  s.config.AdminName,
			Email: s.config.AdminEmail,
			Role:  model.RoleAdmin,
		},
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info("admin account created", "email", u.Email)
	return nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.config.UploadDir))))

	r.Route(s.config.APIPrefix, func(r chi.Router) {
		r.Get("/", s.handleDiscovery)
		r.Get("/health", s.handleHealth)

		r.Post("/auth/login", s.handleLogin)

		// Public content
		r.Get("/projects", s.handleListPublicProjects)
		r.Get("/projects/{idOrSlug}", s.handleGetPublicProject)
		r.Get("/blog", s.handleListPublicPosts)
		r.Get("/blog/tags", s.handleListTags)
		r.Get("/blog/categories", s.handleListCategories)
		r.Get("/blog/{slug}", s.handleGetPublicPost)
		r.Get("/profile", s.handleGetProfile)
		r.Post("/contact", s.handleCreateSubmission)

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin(s.tokens, s.store, s.logger))

			r.Put("/profile", s.handleUpdateProfile)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/dashboard/stats", s.handleDashboardStats)
				r.Post("/profile/resume/upload", s.handleUploadResume)

				r.Get("/projects", s.handleListProjects)
				r.Post("/projects", s.handleCreateProject)
				r.Get("/projects/{id}", s.handleGetProject)
				r.Put("/projects/{id}", s.handleUpdateProject)
				r.Delete("/projects/{id}", s.handleDeleteProject)

				r.Get("/blog/all", s.handleListPosts)
				r.Post("/blog", s.handleCreatePost)
				r.Get("/blog/{id}", s.handleGetPost)
				r.Put("/blog/{id}", s.handleUpdatePost)
				r.Delete("/blog/{id}", s.handleDeletePost)

				r.Get("/contact-submissions", s.handleListSubmissions)
				r.Patch("/contact-submissions/{id}/status", s.handleSetSubmissionStatus)
				r.Delete("/contact-submissions/{id}", s.handleDeleteSubmission)
			})
		})
	})
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}
