// Package server exposes the normalization engine over HTTP. One endpoint
// accepts an extraction payload and returns the stamped, validated canonical
// lines; the rest is operational surface (health, group listing).
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tallyops/advicenorm/config"
	"github.com/tallyops/advicenorm/enrich"
	"github.com/tallyops/advicenorm/loader"
	"github.com/tallyops/advicenorm/normalize"
)

// Server is the normalization HTTP API.
type Server struct {
	Host string
	Port int

	cfg       *config.Config
	loader    *loader.Loader
	registry  *normalize.Registry
	enricher  enrich.Registry
	version   string
	commitSHA string

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the version information reported by the health endpoint.
func WithVersion(version, commitSHA string) Option {
	return func(s *Server) {
		s.version = version
		s.commitSHA = commitSHA
	}
}

// WithEnricher attaches a master-data registry so responses carry account
// codes. Without it, enrichment is skipped and lines come back with nil
// codes.
func WithEnricher(reg enrich.Registry) Option {
	return func(s *Server) {
		s.enricher = enrich.Cached(reg)
	}
}

// New creates a Server bound to the config's listen address.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		Host:     cfg.Server.Host,
		Port:     cfg.Server.Port,
		cfg:      cfg,
		loader:   loader.New(),
		registry: normalize.NewRegistry(normalize.WithDistributorClient(cfg.ClientName)),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin handler. Exposed separately from Start so tests can
// drive it with httptest.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)

	v1 := router.Group("/v1")
	{
		v1.GET("/groups", s.handleGroups)
		v1.POST("/advices/normalize", s.handleNormalize)
	}

	return router
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
