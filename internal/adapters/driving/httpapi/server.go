// Package httpapi exposes the discovery services over HTTP. It is a
// driving adapter: handlers parse the query parameters, call the
// injected services and render JSON. All discovery endpoints degrade
// to fewer results on partial backend failure; they never return an
// error status for it.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/galeria-labs/galeria/internal/core/ports/driving"
	"github.com/galeria-labs/galeria/internal/logger"
)

// Server wires the discovery services to an HTTP listener.
type Server struct {
	discovery driving.DiscoveryService
	directory driving.ArtistDirectory
	httpSrv   *http.Server
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string

	// RateLimitPerSecond caps requests per client IP. Zero disables
	// rate limiting.
	RateLimitPerSecond float64

	// RateLimitBurst is the per-client burst allowance.
	RateLimitBurst int
}

// NewServer creates the HTTP server for the given services.
func NewServer(cfg ServerConfig, discovery driving.DiscoveryService, directory driving.ArtistDirectory) *Server {
	s := &Server{
		discovery: discovery,
		directory: directory,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /tag/{slug}", s.handleTag)
	mux.HandleFunc("GET /artists", s.handleArtists)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	var handler http.Handler = mux
	if cfg.RateLimitPerSecond > 0 {
		handler = rateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst, handler)
	}
	handler = requestID(handler)

	s.httpSrv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the server's root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	logger.Info("http: listening on %s", s.httpSrv.Addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
