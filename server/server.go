// Package server exposes the facilitator over HTTP: POST /verify,
// POST /settle and GET /supported. Verification and settlement outcomes
// travel in the response body; non-200 statuses are reserved for malformed
// requests and server misconfiguration.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/hgraphpay/swapflow/facilitator"
	"github.com/hgraphpay/swapflow/logger"
)

// Config holds the HTTP server configuration.
type Config struct {
	Address        string
	AllowedOrigins []string
	EnableMetrics  bool
	RequestTimeout time.Duration
}

// DefaultConfig returns a configuration suitable for local development.
func DefaultConfig() *Config {
	return &Config{
		Address:        "localhost:8402",
		AllowedOrigins: []string{"http://localhost:3000"},
		EnableMetrics:  true,
		RequestTimeout: 60 * time.Second,
	}
}

// Server wraps the HTTP server and its facilitator services, one per
// supported network.
type Server struct {
	config     *Config
	httpServer *http.Server
	mux        *chi.Mux
	services   map[string]*facilitator.Service
	order      []string
	validate   *validator.Validate
	log        logger.Logger
}

// New builds the HTTP surface over the given facilitator services.
func New(config *Config, services []*facilitator.Service, log logger.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.NoopLogger{}
	}

	s := &Server{
		config:   config,
		services: make(map[string]*facilitator.Service, len(services)),
		validate: validator.New(),
		log:      log,
	}
	for _, svc := range services {
		if _, dup := s.services[svc.Network()]; dup {
			continue
		}
		s.services[svc.Network()] = svc
		s.order = append(s.order, svc.Network())
	}

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.Timeout(config.RequestTimeout))

	mux.Post("/verify", s.handleVerify)
	mux.Post("/settle", s.handleSettle)
	mux.Get("/supported", s.handleSupported)
	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy","service":"swapflow-facilitator"}`))
	})
	if config.EnableMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}
	s.mux = mux

	handler := cors.New(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler(mux)

	s.httpServer = &http.Server{
		Addr:              config.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler exposes the routed mux, CORS included, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.log.Info("facilitator server starting", map[string]any{
		"address":  s.config.Address,
		"networks": s.order,
	})
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests and closes the facilitator
// clients.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	for _, name := range s.order {
		s.services[name].Close()
	}
	return err
}
