// Package server exposes the portfolio content and the contact endpoint
// over HTTP.
package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/tomz197/portfolio/internal/contact"
	"github.com/tomz197/portfolio/internal/portfolio"
)

//go:embed index.html
var indexHTML string

// Config holds server configuration.
type Config struct {
	Addr           string
	AllowAll       bool // allow all CORS origins (dev mode)
	AllowedOrigins []string
	SSHDisplayHost string
	RequestTimeout time.Duration
}

// Server serves the landing page and the JSON API.
type Server struct {
	cfg        Config
	content    *portfolio.Content
	store      *contact.Store
	logger     *zap.Logger
	page       *template.Template
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. store may be nil, in which case the contact
// endpoint is not mounted.
func New(cfg Config, content *portfolio.Content, store *contact.Store, logger *zap.Logger) (*Server, error) {
	if content == nil {
		return nil, errors.New("server: content is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	page, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return nil, fmt.Errorf("parsing landing page: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		content: content,
		store:   store,
		logger:  logger,
		page:    page,
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	corsOpts := cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", s.handleProfile)
		r.Get("/projects", s.handleProjects)
		r.Get("/skills", s.handleSkills)
	})

	if s.store != nil {
		contact.RegisterRoutes(r, s.store, s.logger)
	}

	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins listening on the configured address.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(l)
}

// Serve accepts connections on l until Shutdown. It returns nil after a
// graceful shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("Web server listening", zap.String("addr", l.Addr().String()))
	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
